package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/minaorangina/cadena/ai"
	"github.com/minaorangina/cadena/game"
	"github.com/minaorangina/cadena/protocol"
	"github.com/minaorangina/cadena/room"
	"github.com/minaorangina/cadena/store"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"
)

// Archive keeps finished matches
type Archive interface {
	room.Recorder
	Recent(ctx context.Context, limit int) ([]room.Result, error)
}

type NewGameReq struct {
	Name       string `json:"name"`
	Computers  int    `json:"computers"`
	Difficulty string `json:"difficulty"`
	Rules      string `json:"rules"`
}

type PendingGameRes struct {
	RoomID   string   `json:"room_id"`
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Admin    bool     `json:"is_admin"`
	Players  []string `json:"players"`
}

type JoinGameReq struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name"`
}

type HealthRes struct {
	Status string `json:"status"`
	Rooms  int    `json:"rooms"`
}

// Options configures a GameServer
type Options struct {
	Store store.RoomStore
	// Archive may be nil, in which case finished matches are not kept
	Archive Archive
	Rules   game.Rules
	AIDelay time.Duration
	Origins []string
	Logger  *zap.Logger
}

// GameServer is a game server
type GameServer struct {
	store    store.RoomStore
	archive  Archive
	rules    game.Rules
	aiDelay  time.Duration
	upgrader websocket.Upgrader
	logger   *zap.Logger

	// ctx bounds the computer turn loops
	ctx    context.Context
	cancel context.CancelFunc

	http.Server
}

func NewID() string {
	return uuid.NewV4().String()
}

func unknownRoomIDMsg(unknownID string) string {
	return fmt.Sprintf("%s '%s'", store.ErrUnknownRoomID, unknownID)
}

// NewServer creates a new GameServer
func NewServer(opts Options) *GameServer {
	if opts.Store == nil {
		opts.Store = store.NewInMemoryRoomStore()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Rules.HandSize == 0 {
		opts.Rules = game.ClassicRules()
	}
	if len(opts.Origins) == 0 {
		opts.Origins = []string{"*"}
	}

	s := &GameServer{
		store:   opts.Store,
		archive: opts.Archive,
		rules:   opts.Rules,
		aiDelay: opts.AIDelay,
		logger:  opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(opts.Origins),
		},
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	router := http.NewServeMux()
	router.HandleFunc("POST /new", s.HandleNewGame)
	router.HandleFunc("POST /join", s.HandleJoinGame)
	router.HandleFunc("GET /room/{id}", s.HandleFindRoom)
	router.HandleFunc("GET /results", s.HandleResults)
	router.HandleFunc("GET /health", s.HandleHealth)
	router.HandleFunc("GET /ws", s.HandleWS)

	cors := handlers.CORS(
		handlers.AllowedOrigins(opts.Origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(s.logger)),
		handlers.PrintRecoveryStack(true),
	)
	s.Handler = recovery(cors(router))

	return s
}

// ServeHTTP serves http
func (g *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.Handler.ServeHTTP(w, r)
}

// Shutdown stops the computer turn loops and then the http server
func (g *GameServer) Shutdown(ctx context.Context) error {
	g.cancel()
	return g.Server.Shutdown(ctx)
}

// HandleNewGame creates a room with the caller as its host
func (g *GameServer) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	var data NewGameReq
	err := json.NewDecoder(r.Body).Decode(&data)
	defer r.Body.Close()
	if err != nil {
		g.writeParseError(err, w)
		return
	}

	data.Name = strings.TrimSpace(data.Name)
	if data.Name == "" {
		writeText(w, http.StatusBadRequest, "Missing player name")
		return
	}

	tier, err := ai.ParseTier(data.Difficulty)
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	rules := g.rules
	if data.Rules != "" {
		if rules, err = game.RulesByName(data.Rules); err != nil {
			writeText(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var recorder room.Recorder
	if g.archive != nil {
		recorder = g.archive
	}

	roomID := store.NewRoomID()
	playerID := NewID()
	rm := room.New(room.Opts{
		ID:        roomID,
		Rules:     rules,
		Tier:      tier,
		Computers: data.Computers,
		Delay:     g.aiDelay,
		Logger:    g.logger,
		Recorder:  recorder,
	})

	if err := rm.AddPlayer(playerID, data.Name); err != nil {
		g.internalError(w, err)
		return
	}
	if err := g.store.AddRoom(rm); err != nil {
		g.internalError(w, err)
		return
	}

	g.logger.Info("room created",
		zap.String("room_id", roomID),
		zap.String("player_id", playerID),
		zap.String("rules", rules.Name),
	)

	writeJSON(w, http.StatusCreated, PendingGameRes{
		RoomID:   roomID,
		PlayerID: playerID,
		Name:     data.Name,
		Admin:    true,
		Players:  []string{data.Name},
	})
}

// HandleJoinGame seats a new player in a room that has not started
func (g *GameServer) HandleJoinGame(w http.ResponseWriter, r *http.Request) {
	var data JoinGameReq
	err := json.NewDecoder(r.Body).Decode(&data)
	defer r.Body.Close()
	if err != nil {
		g.writeParseError(err, w)
		return
	}

	if data.RoomID == "" {
		writeText(w, http.StatusBadRequest, "Missing room ID")
		return
	}
	data.Name = strings.TrimSpace(data.Name)
	if data.Name == "" {
		writeText(w, http.StatusBadRequest, "Missing player name")
		return
	}

	rm := g.store.FindRoom(data.RoomID)
	if rm == nil {
		writeText(w, http.StatusNotFound, unknownRoomIDMsg(data.RoomID))
		return
	}
	if g.store.FindPendingRoom(data.RoomID) == nil {
		writeText(w, http.StatusConflict, store.ErrGameAlreadyStarted.Error())
		return
	}

	playerID := NewID()
	if err := rm.AddPlayer(playerID, data.Name); err != nil {
		if errors.Is(err, room.ErrAlreadyStarted) || errors.Is(err, room.ErrRoomFull) {
			writeText(w, http.StatusConflict, err.Error())
			return
		}
		g.internalError(w, err)
		return
	}

	summary := rm.Summary()
	names := make([]string, 0, len(summary.Players))
	for _, p := range summary.Players {
		names = append(names, p.Name)
	}

	writeJSON(w, http.StatusOK, PendingGameRes{
		RoomID:   data.RoomID,
		PlayerID: playerID,
		Name:     data.Name,
		Players:  names,
	})
}

func (g *GameServer) HandleFindRoom(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	rm := g.store.FindRoom(roomID)
	if rm == nil {
		writeText(w, http.StatusNotFound, unknownRoomIDMsg(roomID))
		return
	}
	writeJSON(w, http.StatusOK, rm.Summary())
}

// HandleResults lists recently finished matches
func (g *GameServer) HandleResults(w http.ResponseWriter, r *http.Request) {
	if g.archive == nil {
		writeJSON(w, http.StatusOK, []room.Result{})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeText(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = n
	}

	results, err := g.archive.Recent(r.Context(), limit)
	if err != nil {
		g.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (g *GameServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthRes{Status: "ok", Rooms: len(g.store.Rooms())})
}

// HandleWS upgrades a seated player's connection and pumps messages until it closes
func (g *GameServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	roomID := query.Get("room_id")
	if roomID == "" {
		writeText(w, http.StatusBadRequest, "missing room ID")
		return
	}
	playerID := query.Get("player_id")
	if playerID == "" {
		writeText(w, http.StatusBadRequest, "missing player ID")
		return
	}

	rm := g.store.FindRoom(roomID)
	if rm == nil {
		writeText(w, http.StatusNotFound, unknownRoomIDMsg(roomID))
		return
	}
	if _, ok := rm.Member(playerID); !ok {
		writeText(w, http.StatusUnauthorized, "unknown player ID")
		return
	}

	rawConn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied
		g.logger.Warn("could not upgrade to websocket", zap.Error(err))
		return
	}

	player := newWSPlayer(playerID, rawConn, g.logger)
	go player.writePump()

	if err := rm.Connect(playerID, player); err != nil {
		player.Send(protocol.NewErrorMessage(playerID, err))
		player.close()
		return
	}

	logger := g.logger.With(zap.String("room_id", roomID), zap.String("player_id", playerID))
	logger.Info("player connected")

	player.readPump(func(msg protocol.InboundMessage) {
		g.handleInbound(rm, player, msg)
	})

	rm.Disconnect(playerID, player)
	if !rm.Started() && rm.RemovePlayer(playerID) == 0 {
		g.store.RemoveRoom(roomID)
		logger.Info("room closed")
	}
	logger.Info("player disconnected")
}

func (g *GameServer) handleInbound(rm *room.Room, player *wsPlayer, msg protocol.InboundMessage) {
	// the connection decides who is speaking
	msg.PlayerID = player.id

	var err error
	switch {
	case msg.Command.IsLobbySetting():
		err = g.applyLobbySetting(rm, msg)
	case msg.Command == protocol.Start:
		err = rm.Start(player.id)
	case msg.Command.IsIntent():
		err = rm.Apply(msg)
	default:
		err = fmt.Errorf("%w: %s", room.ErrUnknownCommand, msg.Command)
	}

	if err != nil {
		player.Send(protocol.NewErrorMessage(player.id, err))
		return
	}

	if !msg.Command.IsLobbySetting() {
		go rm.RunComputerTurns(g.ctx)
	}
}

// applyLobbySetting changes the room before the match; the room tells every member
func (g *GameServer) applyLobbySetting(rm *room.Room, msg protocol.InboundMessage) error {
	if msg.Command == protocol.SetComputers {
		_, err := rm.SetComputerSeats(msg.PlayerID, msg.Count)
		return err
	}

	tier, err := ai.ParseTier(msg.Difficulty)
	if err != nil {
		return err
	}
	return rm.SetDifficulty(msg.PlayerID, tier)
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	bytes, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(msg))
}

func (g *GameServer) writeParseError(err error, w http.ResponseWriter) {
	if errors.Is(err, io.EOF) {
		writeText(w, http.StatusBadRequest, "Missing body")
		return
	}
	g.logger.Debug("could not parse request", zap.Error(err))
	writeText(w, http.StatusBadRequest, "Invalid body")
}

func (g *GameServer) internalError(w http.ResponseWriter, err error) {
	g.logger.Error("request failed", zap.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
}
