package main

import (
	"fmt"

	"noteria/backend/services"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete rooms and notes left behind by interrupted cascade deletes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close(ctx)

		result, err := services.NewRoomService(s, cfg.CascadeAtomic, logger).SweepOrphans(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "orphan rooms: %d, rooms deleted: %d, notes deleted: %d\n",
			result.OrphanRooms, result.Rooms, result.Notes)
		return nil
	},
}
