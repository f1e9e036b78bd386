package controllers

import (
	redis_models "Liaptui/models/redis"
	redis_services "Liaptui/services/redis"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func testGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func testRedisClient(t *testing.T) *redis_services.RedisClient {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return redis_services.NewRedisClientFromExisting(client)
}

func TestPing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ping", Ping)

	req, _ := http.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestGetLobbyInfo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rc := testRedisClient(t)

	require.NoError(t, rc.SaveGameLobby(&redis_models.GameLobby{
		ID:           "test123",
		HostName:     "testuser",
		PlayerCount:  3,
		IsStarted:    true,
		CurrentPhase: redis_models.PhaseTurn,
		CurrentRound: 2,
		CreatedAt:    time.Now().UTC(),
	}))

	router := gin.New()
	router.GET("/lobbyInfo/:lobby_id", GetLobbyInfo(rc))

	req, _ := http.NewRequest("GET", "/lobbyInfo/test123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "test123", response["lobby_id"])
	assert.Equal(t, "testuser", response["host_name"])
	assert.Equal(t, float64(3), response["player_count"])
	assert.Equal(t, redis_models.PhaseTurn, response["current_phase"])

	// unknown lobby
	req, _ = http.NewRequest("GET", "/lobbyInfo/nonexistent", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetGameResult(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gormDB, mock := testGormDB(t)

	router := gin.New()
	router.GET("/gameResult/:lobby_id", GetGameResult(gormDB))

	scores := []byte(`{"alice":52,"LiapBot-1":12}`)
	mock.ExpectQuery(`SELECT \* FROM "game_lobbies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "host_name"}).
			AddRow("test123", "alice"))
	mock.ExpectQuery(`SELECT \* FROM "game_results"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"lobby_id", "winner_username", "rounds_played", "final_scores", "finished_at"}).
			AddRow("test123", "alice", 7, scores, time.Now()))

	req, _ := http.NewRequest("GET", "/gameResult/test123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "alice", response["winner"])
	assert.Equal(t, float64(7), response["rounds_played"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGameResultUnfinishedGame(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gormDB, mock := testGormDB(t)

	router := gin.New()
	router.GET("/gameResult/:lobby_id", GetGameResult(gormDB))

	// lobby exists but no result has been stored yet
	mock.ExpectQuery(`SELECT \* FROM "game_lobbies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "host_name"}).
			AddRow("test123", "alice"))
	mock.ExpectQuery(`SELECT \* FROM "game_results"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"lobby_id", "winner_username", "rounds_played", "final_scores", "finished_at"}))

	req, _ := http.NewRequest("GET", "/gameResult/test123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Game result not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGameResultUnknownLobby(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gormDB, mock := testGormDB(t)

	router := gin.New()
	router.GET("/gameResult/:lobby_id", GetGameResult(gormDB))

	mock.ExpectQuery(`SELECT \* FROM "game_lobbies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "host_name"}))

	req, _ := http.NewRequest("GET", "/gameResult/nonexistent", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Lobby not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGameResultPlayerFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gormDB, mock := testGormDB(t)

	router := gin.New()
	router.GET("/gameResult/:lobby_id", GetGameResult(gormDB))

	mock.ExpectQuery(`SELECT \* FROM "game_lobbies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "host_name"}).
			AddRow("test123", "alice"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "in_game_players"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	req, _ := http.NewRequest("GET", "/gameResult/test123?username=mallory", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "did not take part")
	assert.NoError(t, mock.ExpectationsWereMet())
}
