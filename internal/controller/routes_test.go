package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbeisheim/branchchess-backend/internal/assets"
	"github.com/benbeisheim/branchchess-backend/internal/model"
	"github.com/benbeisheim/branchchess-backend/internal/search"
	"github.com/benbeisheim/branchchess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, assets.Name("white", "king")), []byte("\x89PNG\r\n\x1a\nking"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	cfg := search.DefaultConfig()
	cfg.Depth, cfg.EndgameDepth = 0, 0
	gs := service.NewGameService(service.NewGameManager(zerolog.Nop()), service.Options{
		ClockTime: time.Hour,
		Search:    cfg,
		Logger:    zerolog.Nop(),
	})
	app := fiber.New()
	Register(app, gs, assets.NewStore(dir, zerolog.Nop()), []string{"*"}, zerolog.Nop())
	return app
}

func do(t *testing.T, app *fiber.App, method, path, player, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if player != "" {
		req.Header.Set("X-Player-ID", player)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), fiber.MIMEApplicationJSON) {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, out
}

func createGame(t *testing.T, app *fiber.App, body string) string {
	t.Helper()
	status, out := do(t, app, http.MethodPost, "/api/game/create", "alice", body)
	if status != http.StatusOK {
		t.Fatalf("create: expected 200, got %d %v", status, out)
	}
	id, ok := out["game_id"].(string)
	if !ok || id == "" {
		t.Fatalf("create: no game id in %v", out)
	}
	return id
}

func TestPlayerIDIsRequired(t *testing.T) {
	app := newTestApp(t)
	if status, _ := do(t, app, http.MethodGet, "/api/games", "", ""); status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	status, _ := do(t, app, http.MethodGet, "/api/games?playerId=alice", "", "")
	if status != http.StatusOK {
		t.Fatalf("expected the query parameter to identify the player, got %d", status)
	}
}

func TestGameLifecycle(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, `{"opponent":"person","side":"white"}`)

	status, out := do(t, app, http.MethodGet, "/api/games", "alice", "")
	if status != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", status)
	}
	if games, _ := out["games"].([]any); len(games) != 1 || games[0] != id {
		t.Fatalf("list: expected [%s], got %v", id, out["games"])
	}

	status, out = do(t, app, http.MethodGet, "/api/game/"+id, "alice", "")
	if status != http.StatusOK || out["toMove"] != "white" || out["opponent"] != "person" {
		t.Fatalf("state: unexpected %d %v", status, out)
	}

	for _, square := range []string{"e2", "e4"} {
		status, out = do(t, app, http.MethodPost, "/api/game/"+id+"/select", "alice", `{"square":"`+square+`"}`)
		if status != http.StatusOK {
			t.Fatalf("select %s: expected 200, got %d %v", square, status, out)
		}
	}
	if out["toMove"] != "black" {
		t.Fatalf("expected black to move, got %v", out["toMove"])
	}
	if history, _ := out["moveHistory"].([]any); len(history) != 1 || history[0] != "e4" {
		t.Fatalf("unexpected history %v", out["moveHistory"])
	}

	if status, _ = do(t, app, http.MethodPost, "/api/game/"+id+"/select", "mallory", `{"square":"e7"}`); status != http.StatusForbidden {
		t.Fatalf("expected 403 for another player, got %d", status)
	}
	if status, _ = do(t, app, http.MethodPost, "/api/game/"+id+"/select", "alice", `{"square":"k9"}`); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad square, got %d", status)
	}
	if status, _ = do(t, app, http.MethodPost, "/api/game/"+id+"/promote", "alice", `{"kind":"queen"}`); status != http.StatusConflict {
		t.Fatalf("expected 409 without a pending promotion, got %d", status)
	}

	status, out = do(t, app, http.MethodPost, "/api/game/"+id+"/takeback", "alice", "")
	if status != http.StatusOK || out["toMove"] != "white" {
		t.Fatalf("takeback: unexpected %d %v", status, out)
	}

	status, out = do(t, app, http.MethodPost, "/api/game/"+id+"/resign", "alice", "")
	if status != http.StatusOK {
		t.Fatalf("resign: expected 200, got %d", status)
	}
	result, _ := out["result"].(map[string]any)
	if result["reason"] != "resignation" || result["winner"] != "black" {
		t.Fatalf("unexpected result %v", out["result"])
	}
	if status, _ = do(t, app, http.MethodPost, "/api/game/"+id+"/resign", "alice", ""); status != http.StatusConflict {
		t.Fatalf("expected 409 once the game is over, got %d", status)
	}
}

func TestOwnerSurvivesOtherRequests(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, `{"opponent":"person","side":"white"}`)

	for _, tt := range []struct {
		player string
		square string
		want   int
	}{
		{"bobby", "e2", http.StatusForbidden},
		{"alice", "e2", http.StatusOK},
		{"bobby", "e4", http.StatusForbidden},
		{"alice", "e4", http.StatusOK},
		{"bobby", "e7", http.StatusForbidden},
	} {
		status, _ := do(t, app, http.MethodPost, "/api/game/"+id+"/select", tt.player, `{"square":"`+tt.square+`"}`)
		if status != tt.want {
			t.Fatalf("%s selects %s: expected %d, got %d", tt.player, tt.square, tt.want, status)
		}
	}
	if status, _ := do(t, app, http.MethodGet, "/api/game/"+id+"?playerId=bobby", "", ""); status != http.StatusOK {
		t.Fatalf("expected anyone to read the state, got %d", status)
	}
	if status, _ := do(t, app, http.MethodPost, "/api/game/"+id+"/resign", "bobby", ""); status != http.StatusForbidden {
		t.Fatalf("expected 403 for another player's resignation, got %d", status)
	}
}

func TestCreateGameValidation(t *testing.T) {
	app := newTestApp(t)
	tests := []struct {
		name string
		body string
	}{
		{"malformed body", `{"opponent":`},
		{"unknown opponent", `{"opponent":"ghost"}`},
		{"unknown side", `{"opponent":"person","side":"green"}`},
		{"bad position", `{"opponent":"person","fen":"not a fen"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status, out := do(t, app, http.MethodPost, "/api/game/create", "alice", tt.body); status != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d %v", status, out)
			}
		})
	}
}

func TestCreateComputerGameByDefault(t *testing.T) {
	app := newTestApp(t)
	status, out := do(t, app, http.MethodPost, "/api/game/create", "alice", `{"side":"white"}`)
	if status != http.StatusOK || out["color"] != "white" {
		t.Fatalf("unexpected %d %v", status, out)
	}
	id := out["game_id"].(string)
	if _, out = do(t, app, http.MethodGet, "/api/game/"+id, "alice", ""); out["opponent"] != string(model.OpponentComputer) {
		t.Fatalf("expected a computer opponent, got %v", out["opponent"])
	}
}

func TestUnknownGameIsNotFound(t *testing.T) {
	app := newTestApp(t)
	if status, _ := do(t, app, http.MethodGet, "/api/game/missing", "alice", ""); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if status, _ := do(t, app, http.MethodPost, "/api/game/missing/takeback", "alice", ""); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestWebSocketRouteRequiresUpgrade(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, `{"opponent":"person"}`)
	if status, _ := do(t, app, http.MethodGet, "/ws/game/"+id, "alice", ""); status != http.StatusUpgradeRequired {
		t.Fatalf("expected 426, got %d", status)
	}
	if status, _ := do(t, app, http.MethodGet, "/ws/game/"+id, "", ""); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a player, got %d", status)
	}
}

func TestAssets(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/assets/white_king.png", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("expected a png, got %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	for _, tt := range []struct {
		name string
		want int
	}{
		{"black_king.png", http.StatusNotFound},
		{"white_king.png", http.StatusOK},
		{"xxxxxxxxxxxxxx", http.StatusNotFound},
		{"black_king.png", http.StatusNotFound},
	} {
		if status, _ := do(t, app, http.MethodGet, "/assets/"+tt.name, "", ""); status != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.want, status)
		}
	}
}

func TestHelp(t *testing.T) {
	app := newTestApp(t)
	status, out := do(t, app, http.MethodGet, "/api/help", "alice", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if help, _ := out["help"].(string); !strings.Contains(help, "1h0m0s") {
		t.Fatalf("expected the clock time in %q", help)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrGameNotFound, fiber.StatusNotFound},
		{model.ErrNotAuthorized, fiber.StatusForbidden},
		{model.ErrInvalidSquare, fiber.StatusBadRequest},
		{model.ErrNotYourTurn, fiber.StatusConflict},
		{model.ErrGameOver, fiber.StatusConflict},
		{model.ErrPromotionPending, fiber.StatusConflict},
		{io.EOF, fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
