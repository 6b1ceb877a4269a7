package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"noteria/backend/models"
	"noteria/backend/services"
)

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	RoomID  string `json:"roomId"`
}

// updateNoteRequest leaves a field untouched when it is absent or null.
type updateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func RegisterNoteRoutes(group *gin.RouterGroup, noteService services.NoteServiceInterface) {
	notes := group.Group("/notes")
	{
		notes.POST("", func(c *gin.Context) { CreateNote(c, noteService) })
		notes.GET("", func(c *gin.Context) { GetNotes(c, noteService) })
		notes.GET("/room/:roomId", func(c *gin.Context) { GetNotesByRoom(c, noteService) })
		notes.GET("/:noteId", func(c *gin.Context) { GetNoteById(c, noteService) })
		notes.PUT("/:noteId", func(c *gin.Context) { UpdateNote(c, noteService) })
		notes.DELETE("/:noteId", func(c *gin.Context) { DeleteNote(c, noteService) })
	}
}

func CreateNote(c *gin.Context, noteService services.NoteServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var request createNoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}

	note, err := noteService.CreateNote(c.Request.Context(), userID, services.CreateNoteInput{
		RoomID:  request.RoomID,
		Title:   request.Title,
		Content: request.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Note created successfully", "note": note})
}

func GetNotes(c *gin.Context, noteService services.NoteServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	notes, err := noteService.ListNotes(c.Request.Context(), userID, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notes retrieved successfully", "notes": notes})
}

func GetNotesByRoom(c *gin.Context, noteService services.NoteServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := idParam(c, "roomId", "room")
	if !ok {
		return
	}
	notes, err := noteService.ListNotes(c.Request.Context(), userID, &roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notes retrieved successfully", "notes": notes})
}

func GetNoteById(c *gin.Context, noteService services.NoteServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	noteID, ok := idParam(c, "noteId", "note")
	if !ok {
		return
	}
	note, err := noteService.GetNote(c.Request.Context(), userID, noteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note retrieved successfully", "note": note})
}

func UpdateNote(c *gin.Context, noteService services.NoteServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	noteID, ok := idParam(c, "noteId", "note")
	if !ok {
		return
	}
	var request updateNoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}

	note, err := noteService.UpdateNote(c.Request.Context(), userID, noteID, models.NotePatch{
		Title:   request.Title,
		Content: request.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note updated successfully", "note": note})
}

func DeleteNote(c *gin.Context, noteService services.NoteServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	noteID, ok := idParam(c, "noteId", "note")
	if !ok {
		return
	}
	if err := noteService.DeleteNote(c.Request.Context(), userID, noteID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
}
