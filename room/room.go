// Package room seats players around a match and serialises everything they do to it.
package room

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/minaorangina/cadena/ai"
	"github.com/minaorangina/cadena/game"
	"github.com/minaorangina/cadena/protocol"
	"go.uber.org/zap"
)

var (
	ErrNotStarted      = errors.New("game has not started")
	ErrAlreadyStarted  = errors.New("game has already started")
	ErrGameOver        = errors.New("game is over")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrUnknownPlayer   = errors.New("unknown player ID")
	ErrDuplicatePlayer = errors.New("player already in room")
	ErrRoomFull        = errors.New("room is full")
	ErrNotHost         = errors.New("only the host can do that")
	ErrIllegalMove     = errors.New("move not allowed")
	ErrUnknownCommand  = errors.New("unknown command")
)

var computerNames = []string{"Computer Red", "Computer Blue", "Computer Green", "Computer Purple"}

// Conn delivers messages to one connected player
type Conn interface {
	Send(msg protocol.OutboundMessage) error
}

// Member is a human seat
type Member struct {
	ID   string
	Name string
	conn Conn
}

// Opts configures a new room
type Opts struct {
	ID        string
	Rules     game.Rules
	Tier      ai.Tier
	Computers int
	// Delay paces computer turns
	Delay    time.Duration
	Logger   *zap.Logger
	Recorder Recorder
	Rand     *rand.Rand
}

// Room is a lobby and, once started, the only writer of its match
type Room struct {
	ID string

	mu        sync.Mutex
	hostID    string
	members   []*Member
	computers int
	tier      ai.Tier
	rules     game.Rules
	match     *game.Match
	bot       *ai.Strategist
	rng       *rand.Rand
	delay     time.Duration
	logger    *zap.Logger
	recorder  Recorder
	recorded  bool
	botsBusy  bool
	createdAt time.Time
}

func New(opts Opts) *Room {
	if opts.Rules.HandSize == 0 {
		opts.Rules = game.ClassicRules()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	r := &Room{
		ID:        opts.ID,
		members:   []*Member{},
		tier:      opts.Tier,
		rules:     opts.Rules,
		rng:       opts.Rand,
		delay:     opts.Delay,
		logger:    opts.Logger.With(zap.String("room_id", opts.ID)),
		recorder:  opts.Recorder,
		createdAt: time.Now(),
	}
	r.computers = r.clampComputers(opts.Computers)

	return r
}

// AddPlayer seats a human. The first one becomes the host.
func (r *Room) AddPlayer(id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.match != nil {
		return ErrAlreadyStarted
	}
	if r.member(id) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
	}
	if len(r.members) >= r.rules.MaxPlayers {
		return fmt.Errorf("%w (max %d)", ErrRoomFull, r.rules.MaxPlayers)
	}

	joiner := &Member{ID: id, Name: name}
	r.members = append(r.members, joiner)
	if r.hostID == "" {
		r.hostID = id
	}
	r.computers = r.clampComputers(r.computers)

	for _, m := range r.members {
		r.send(m, protocol.NewJoinerMessage(m.ID, protocol.Player{PlayerID: id, Name: name}))
	}
	r.logger.Info("player joined", zap.String("player_id", id), zap.Int("humans", len(r.members)))

	return nil
}

// RemovePlayer drops a human from the lobby, handing the host role on if needed.
// Once a match has started the seat stays and only the connection is dropped.
// It returns how many humans are left.
func (r *Room) RemovePlayer(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.match != nil {
		if m := r.member(id); m != nil {
			m.conn = nil
		}
		return len(r.members)
	}

	for i, m := range r.members {
		if m.ID == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			break
		}
	}
	if r.hostID == id {
		r.hostID = ""
		if len(r.members) > 0 {
			r.hostID = r.members[0].ID
		}
	}
	r.computers = r.clampComputers(r.computers)
	r.broadcastLobby()

	return len(r.members)
}

// Connect attaches a connection to a seated human. A player joining a running
// match is sent their view straight away.
func (r *Room) Connect(id string, c Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.member(id)
	if m == nil {
		return ErrUnknownPlayer
	}
	m.conn = c

	if r.match != nil {
		r.send(m, protocol.NewStateMessage(r.match.View(id)))
	}
	return nil
}

// Disconnect detaches c if it is still the player's connection
func (r *Room) Disconnect(id string, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m := r.member(id); m != nil && m.conn == c {
		m.conn = nil
	}
}

// SetComputerSeats sets how many computer seats join the match, capped by the free seats
func (r *Room) SetComputerSeats(playerID string, n int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkHostInLobby(playerID); err != nil {
		return r.computers, err
	}
	r.computers = r.clampComputers(n)
	r.broadcastLobby()
	return r.computers, nil
}

func (r *Room) SetDifficulty(playerID string, tier ai.Tier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkHostInLobby(playerID); err != nil {
		return err
	}
	r.tier = tier
	r.broadcastLobby()
	return nil
}

// Start deals the match with every human seat followed by the computer seats
func (r *Room) Start(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkHostInLobby(playerID); err != nil {
		return err
	}

	seats := make([]game.Seat, 0, len(r.members)+r.computers)
	for _, m := range r.members {
		seats = append(seats, game.Seat{ID: m.ID, Name: m.Name})
	}
	for i := 0; i < r.computers; i++ {
		seats = append(seats, game.Seat{ID: fmt.Sprintf("ai-%d", i), Name: computerNames[i], Computer: true})
	}

	match, err := game.NewMatch(seats, r.rules, r.rng)
	if err != nil {
		return err
	}
	r.match = match
	r.bot = ai.NewStrategist(r.tier, r.rng)

	r.logger.Info("game started",
		zap.Int("humans", len(r.members)),
		zap.Int("computers", r.computers),
		zap.String("difficulty", r.tier.String()),
		zap.String("rules", r.rules.Name),
	)
	for _, m := range r.members {
		r.send(m, protocol.NewHasStartedMessage(m.ID))
	}
	r.broadcast()

	return nil
}

// Apply applies a player's intent to the match. Intents from anyone but the
// current seat are refused before the match sees them; an intent the match
// ignores is reported as ErrIllegalMove.
func (r *Room) Apply(msg protocol.InboundMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.match == nil {
		return ErrNotStarted
	}
	if r.match.GameOver() {
		return ErrGameOver
	}
	if r.member(msg.PlayerID) == nil {
		return ErrUnknownPlayer
	}
	if r.match.CurrentPlayer().ID != msg.PlayerID {
		return ErrNotYourTurn
	}

	var changed bool
	switch msg.Command {
	case protocol.PlayCard:
		changed = r.match.PlayCard(msg.Index)
	case protocol.Discard:
		changed = r.match.Discard(msg.Index)
	case protocol.Pass:
		changed = r.match.Pass()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, msg.Command)
	}

	if !changed {
		return fmt.Errorf("%w: %s %d", ErrIllegalMove, msg.Command, msg.Index)
	}

	r.settle()
	return nil
}

// View is the match as playerID sees it
func (r *Room) View(playerID string) (game.View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.match == nil {
		return game.View{}, ErrNotStarted
	}
	return r.match.View(playerID), nil
}

func (r *Room) HostID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hostID
}

func (r *Room) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.match != nil
}

func (r *Room) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.match != nil && r.match.GameOver()
}

// Member finds a seated human
func (r *Room) Member(id string) (Member, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.member(id)
	if m == nil {
		return Member{}, false
	}
	return Member{ID: m.ID, Name: m.Name}, true
}

// Summary describes the room for the lobby
type Summary struct {
	ID         string            `json:"room_id"`
	HostID     string            `json:"host_id"`
	Players    []protocol.Player `json:"players"`
	Computers  int               `json:"computers"`
	Difficulty string            `json:"difficulty"`
	Rules      string            `json:"rules"`
	Status     string            `json:"status"`
	WinnerID   string            `json:"winner_id,omitempty"`
}

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

func (r *Room) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	l := r.lobby()
	s := Summary{
		ID:         l.RoomID,
		HostID:     l.HostID,
		Players:    l.Players,
		Computers:  l.Computers,
		Difficulty: l.Difficulty,
		Rules:      l.Rules,
		Status:     StatusWaiting,
	}
	if r.match != nil {
		s.Status = StatusPlaying
		if r.match.GameOver() {
			s.Status = StatusFinished
			s.WinnerID = r.match.WinnerID
		}
	}
	return s
}

// settle runs after every applied transition. Callers hold the lock.
func (r *Room) settle() {
	r.broadcast()
	if r.match.GameOver() {
		r.logger.Info("game finished",
			zap.String("winner_id", r.match.WinnerID),
			zap.Int("rounds", r.match.Round),
		)
		r.record()
	}
}

func (r *Room) broadcast() {
	if r.match == nil {
		return
	}
	for _, m := range r.members {
		r.send(m, protocol.NewStateMessage(r.match.View(m.ID)))
	}
}

// broadcastLobby tells every connected human how the lobby now stands. Callers hold the lock.
func (r *Room) broadcastLobby() {
	lobby := r.lobby()
	for _, m := range r.members {
		r.send(m, protocol.NewLobbyMessage(m.ID, lobby))
	}
}

func (r *Room) lobby() protocol.Lobby {
	l := protocol.Lobby{
		RoomID:     r.ID,
		HostID:     r.hostID,
		Players:    make([]protocol.Player, 0, len(r.members)),
		Computers:  r.computers,
		Difficulty: r.tier.String(),
		Rules:      r.rules.Name,
	}
	for _, m := range r.members {
		l.Players = append(l.Players, protocol.Player{PlayerID: m.ID, Name: m.Name})
	}
	return l
}

func (r *Room) send(m *Member, msg protocol.OutboundMessage) {
	if m.conn == nil {
		return
	}
	if err := m.conn.Send(msg); err != nil {
		r.logger.Warn("could not send message",
			zap.String("player_id", m.ID),
			zap.String("command", msg.Command.String()),
			zap.Error(err),
		)
	}
}

func (r *Room) member(id string) *Member {
	for _, m := range r.members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (r *Room) checkHostInLobby(playerID string) error {
	if r.member(playerID) == nil {
		return ErrUnknownPlayer
	}
	if playerID != r.hostID {
		return ErrNotHost
	}
	if r.match != nil {
		return ErrAlreadyStarted
	}
	return nil
}

func (r *Room) clampComputers(n int) int {
	free := r.rules.MaxPlayers - len(r.members)
	if free > len(computerNames) {
		free = len(computerNames)
	}
	if n > free {
		n = free
	}
	if n < 0 {
		n = 0
	}
	return n
}
