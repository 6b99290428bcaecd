package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/GriffinCanCode/AgentOS/desktop/internal/apps/calculator"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/apps/media"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/apps/minesweeper"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

// CellRequest addresses one minesweeper cell
type CellRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

// StrokeRequest carries one paint stroke
type StrokeRequest struct {
	Stroke string `json:"stroke" binding:"required"`
}

// LoadRequest carries a video URL or id
type LoadRequest struct {
	URL string `json:"url" binding:"required"`
}

// KeysRequest carries calculator keys, pressed in order
type KeysRequest struct {
	Keys string `json:"keys" binding:"required,max=256"`
}

// MinesweeperBoard renders the board of a minesweeper window
func (h *Handlers) MinesweeperBoard(c *gin.Context) {
	appID, game, ok := h.minesweeper(c)
	if !ok {
		return
	}
	board, found := game.Board(appID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": minesweeper.ErrNoGame.Error(), "app_id": appID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"app_id": appID, "board": board, "ticking": game.Ticking(appID)})
}

// MinesweeperReveal uncovers a cell
func (h *Handlers) MinesweeperReveal(c *gin.Context) {
	h.minesweeperMove(c, func(game *minesweeper.App, appID string, r, col int) (minesweeper.Status, error) {
		return game.Reveal(appID, r, col)
	})
}

// MinesweeperFlag toggles a flag on a cell
func (h *Handlers) MinesweeperFlag(c *gin.Context) {
	h.minesweeperMove(c, func(game *minesweeper.App, appID string, r, col int) (minesweeper.Status, error) {
		return game.ToggleFlag(appID, r, col)
	})
}

// MinesweeperReset starts a new round
func (h *Handlers) MinesweeperReset(c *gin.Context) {
	appID, game, ok := h.minesweeper(c)
	if !ok {
		return
	}
	if err := game.Reset(appID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "app_id": appID})
		return
	}
	board, _ := game.Board(appID)
	c.JSON(http.StatusOK, gin.H{"app_id": appID, "board": board})
}

func (h *Handlers) minesweeperMove(c *gin.Context, move func(*minesweeper.App, string, int, int) (minesweeper.Status, error)) {
	appID, game, ok := h.minesweeper(c)
	if !ok {
		return
	}

	var req CellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := move(game, appID, *req.Row, *req.Col)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "app_id": appID, "status": status})
		return
	}
	board, _ := game.Board(appID)
	c.JSON(http.StatusOK, gin.H{"app_id": appID, "status": status, "board": board})
}

func (h *Handlers) minesweeper(c *gin.Context) (string, *minesweeper.App, bool) {
	appID, ok := appParam(c)
	if !ok {
		return "", nil, false
	}
	if h.apps.Minesweeper == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "minesweeper not available"})
		return "", nil, false
	}
	return appID, h.apps.Minesweeper, true
}

// PaintCritique returns the latest critique of a paint window
func (h *Handlers) PaintCritique(c *gin.Context) {
	appID, ok := h.paint(c)
	if !ok {
		return
	}
	text, count, found := h.apps.Paint.Commentary(appID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no canvas", "app_id": appID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"app_id": appID, "commentary": text, "critiques": count})
}

// PaintDraw adds a stroke to the canvas
func (h *Handlers) PaintDraw(c *gin.Context) {
	appID, ok := h.paint(c)
	if !ok {
		return
	}

	var req StrokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStroke(req.Stroke); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.apps.Paint.Draw(appID, req.Stroke) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no canvas", "app_id": appID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "app_id": appID})
}

// PaintClear wipes the canvas
func (h *Handlers) PaintClear(c *gin.Context) {
	appID, ok := h.paint(c)
	if !ok {
		return
	}
	if !h.apps.Paint.Clear(appID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no canvas", "app_id": appID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "app_id": appID})
}

func (h *Handlers) paint(c *gin.Context) (string, bool) {
	appID, ok := appParam(c)
	if !ok {
		return "", false
	}
	if h.apps.Paint == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "paint not available"})
		return "", false
	}
	return appID, true
}

// MediaPlayer returns the player of a media window
func (h *Handlers) MediaPlayer(c *gin.Context) {
	appID, ok := h.media(c)
	if !ok {
		return
	}
	player, found := h.apps.Media.Player(appID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": media.ErrNoPlayer.Error(), "app_id": appID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"app_id": appID, "player": player})
}

// MediaLoad starts a video from a URL or bare id
func (h *Handlers) MediaLoad(c *gin.Context) {
	appID, ok := h.media(c)
	if !ok {
		return
	}

	var req LoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateURL(req.URL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := h.apps.Media.LoadVideo(appID, strings.TrimSpace(req.URL))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "app_id": appID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"app_id": appID, "player": player})
}

// MediaPlay resumes playback
func (h *Handlers) MediaPlay(c *gin.Context) {
	h.mediaControl(c, (*media.App).Play)
}

// MediaPause pauses playback
func (h *Handlers) MediaPause(c *gin.Context) {
	h.mediaControl(c, (*media.App).Pause)
}

// MediaStop ends playback
func (h *Handlers) MediaStop(c *gin.Context) {
	h.mediaControl(c, (*media.App).Stop)
}

func (h *Handlers) mediaControl(c *gin.Context, control func(*media.App, string) (media.Player, error)) {
	appID, ok := h.media(c)
	if !ok {
		return
	}
	player, err := control(h.apps.Media, appID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "app_id": appID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"app_id": appID, "player": player})
}

func (h *Handlers) media(c *gin.Context) (string, bool) {
	appID, ok := appParam(c)
	if !ok {
		return "", false
	}
	if h.apps.Media == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "media player not available"})
		return "", false
	}
	return appID, true
}

// CalculatorDisplay returns the display of a calculator window
func (h *Handlers) CalculatorDisplay(c *gin.Context) {
	appID, ok := h.calculator(c)
	if !ok {
		return
	}
	display, found := h.apps.Calculator.Display(appID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": calculator.ErrNoCalculator.Error(), "app_id": appID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"app_id": appID, "display": display})
}

// CalculatorPress presses keys on a calculator
func (h *Handlers) CalculatorPress(c *gin.Context) {
	appID, ok := h.calculator(c)
	if !ok {
		return
	}

	var req KeysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	display, err := h.apps.Calculator.Press(appID, req.Keys)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "app_id": appID, "display": display})
		return
	}
	c.JSON(http.StatusOK, gin.H{"app_id": appID, "display": display})
}

func (h *Handlers) calculator(c *gin.Context) (string, bool) {
	appID, ok := appParam(c)
	if !ok {
		return "", false
	}
	if h.apps.Calculator == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "calculator not available"})
		return "", false
	}
	return appID, true
}

// statusFor maps collaborator errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, minesweeper.ErrNoGame), errors.Is(err, media.ErrNoPlayer),
		errors.Is(err, calculator.ErrNoCalculator):
		return http.StatusNotFound
	case errors.Is(err, minesweeper.ErrOutOfBounds), errors.Is(err, media.ErrInvalidVideo),
		errors.Is(err, calculator.ErrUnknownKey):
		return http.StatusBadRequest
	case errors.Is(err, minesweeper.ErrGameOver), errors.Is(err, minesweeper.ErrNotStarted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
