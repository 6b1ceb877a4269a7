package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"noteria/backend/services"
)

type createRoomRequest struct {
	Name       string  `json:"name"`
	ParentRoom *string `json:"parentRoom"`
}

type renameRoomRequest struct {
	Name string `json:"name"`
}

type moveRoomRequest struct {
	ParentRoom *string `json:"parentRoom"`
}

func RegisterRoomRoutes(group *gin.RouterGroup, roomService services.RoomServiceInterface) {
	rooms := group.Group("/rooms")
	{
		rooms.POST("", func(c *gin.Context) { CreateRoom(c, roomService) })
		rooms.GET("", func(c *gin.Context) { GetRooms(c, roomService) })
		rooms.GET("/root", func(c *gin.Context) { GetRootRooms(c, roomService) })
		rooms.GET("/parent/:parentId", func(c *gin.Context) { GetChildRooms(c, roomService) })
		rooms.GET("/:roomId", func(c *gin.Context) { GetRoomById(c, roomService) })
		rooms.GET("/:roomId/breadcrumb", func(c *gin.Context) { GetRoomBreadcrumb(c, roomService) })
		rooms.PUT("/:roomId", func(c *gin.Context) { RenameRoom(c, roomService) })
		rooms.PATCH("/:roomId/move", func(c *gin.Context) { MoveRoom(c, roomService) })
		rooms.DELETE("/:roomId", func(c *gin.Context) { DeleteRoom(c, roomService) })
	}
}

func CreateRoom(c *gin.Context, roomService services.RoomServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var request createRoomRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}
	parent, ok := optionalID(c, request.ParentRoom, "room")
	if !ok {
		return
	}

	room, err := roomService.CreateRoom(c.Request.Context(), userID, request.Name, parent)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Room created successfully", "room": room})
}

func GetRooms(c *gin.Context, roomService services.RoomServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	rooms, err := roomService.ListRooms(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rooms retrieved successfully", "rooms": rooms})
}

func GetRootRooms(c *gin.Context, roomService services.RoomServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	rooms, err := roomService.ListChildRooms(c.Request.Context(), userID, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Root rooms retrieved successfully", "rooms": rooms})
}

func GetChildRooms(c *gin.Context, roomService services.RoomServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	parentID, ok := idParam(c, "parentId", "room")
	if !ok {
		return
	}
	rooms, err := roomService.ListChildRooms(c.Request.Context(), userID, &parentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subrooms retrieved successfully", "rooms": rooms})
}

func GetRoomById(c *gin.Context, roomService services.RoomServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := idParam(c, "roomId", "room")
	if !ok {
		return
	}
	room, err := roomService.GetRoom(c.Request.Context(), userID, roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room retrieved successfully", "room": room})
}

func GetRoomBreadcrumb(c *gin.Context, roomService services.RoomServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := idParam(c, "roomId", "room")
	if !ok {
		return
	}
	rooms, err := roomService.GetBreadcrumb(c.Request.Context(), userID, roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Breadcrumb retrieved successfully", "rooms": rooms})
}

func RenameRoom(c *gin.Context, roomService services.RoomServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := idParam(c, "roomId", "room")
	if !ok {
		return
	}
	var request renameRoomRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}

	room, err := roomService.RenameRoom(c.Request.Context(), userID, roomID, request.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room updated successfully", "room": room})
}

// MoveRoom reparents a room. A null or missing parentRoom moves it to the root.
func MoveRoom(c *gin.Context, roomService services.RoomServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := idParam(c, "roomId", "room")
	if !ok {
		return
	}
	var request moveRoomRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}
	parent, ok := optionalID(c, request.ParentRoom, "room")
	if !ok {
		return
	}

	room, err := roomService.MoveRoom(c.Request.Context(), userID, roomID, parent)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room moved successfully", "room": room})
}

func DeleteRoom(c *gin.Context, roomService services.RoomServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := idParam(c, "roomId", "room")
	if !ok {
		return
	}
	result, err := roomService.DeleteRoom(c.Request.Context(), userID, roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Room and all its contents deleted successfully",
		"deletedRooms": result.Rooms,
		"deletedNotes": result.Notes,
	})
}
