package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/treasurerun/model"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 512
	outboxSize     = 16
)

// emptyTimeout is how long a new game waits for its first connection.
const emptyTimeout = 30 * time.Second

func NewGameServer(board *model.Board, defaultPlayers int, resolveDelay time.Duration) *GameServer {
	if board == nil {
		board = model.DefaultBoard()
	}
	return &GameServer{
		GameSessions:   make(map[string]*GameSession),
		GameRequests:   make(chan GameRequest),
		ListRequests:   make(chan chan []GameInfo),
		SessionsClosed: make(chan string),
		Upgrader:       &websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		Board:          board,
		DefaultPlayers: defaultPlayers,
		ResolveDelay:   resolveDelay,
		EmptyTimeout:   emptyTimeout,
		NewDice:        func() model.Dice { return model.NewTimeDice() },
		quit:           make(chan struct{}),
	}
}

// HandleHttpCall upgrades to a websocket attached to the game named by the
// "game" query parameter, or to a new game of "players".
func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	timeout := 200 * time.Millisecond
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("HandleHttpCall - Conection received from %s", r.RemoteAddr)

		players := s.DefaultPlayers
		if v := r.URL.Query().Get("players"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				log.Warnf("HandleHttpCall bad players %q", v)
				w.WriteHeader(HTTP_BAD_REQUEST)
				return
			}
			players = n
		}

		gcas := make(chan GameContextAwaiting, 1)
		select {
		case s.GameRequests <- GameRequest{
			GameId:              r.URL.Query().Get("game"),
			Players:             players,
			GameContextAwaiting: gcas}:
		case <-time.After(timeout):
			log.Warn("GameRequests TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		var gca GameContextAwaiting
		select {
		case gca = <-gcas:
			switch gca.ResponseCode {
			case GAME_NOT_FOUND:
				fallthrough
			case GAME_INVALIDE:
				w.WriteHeader(gca.ResponseCode.ToHttp())
				return
			case GAME_READY:
				log.Printf("HandleHttpCall ok, have GameSession %s", gca.GameSession.Id)
			default:
				log.Errorf("gca.ResponseCode not expected:%v", gca.ResponseCode)
				w.WriteHeader(HTTP_SERVER_ERR)
				return
			}
		case <-time.After(timeout):
			log.Warnf("HandleHttpCall GameContextAwaiting <- TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("HandleHttpCall websocket upgrade err %v", err)
			return
		}
		defer con.Close()

		gameOver := make(chan struct{})
		select {
		case gca.GameSession.PlayerConnectRequests <- PlayerConnectRequest{
			Con:      con,
			GameOver: gameOver}:
		case <-time.After(timeout):
			log.Warnf("HandleHttpCall PlayerConnectRequests <- TIMEOUTED")
			return
		}

		<-gameOver
		log.Info("HandleHttpCall connection done")
	}
}

func (s *GameServer) HandleListGames() http.HandlerFunc {
	timeout := 200 * time.Millisecond
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan []GameInfo, 1)
		select {
		case s.ListRequests <- reply:
		case <-time.After(timeout):
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}
		var games []GameInfo
		select {
		case games = <-reply:
		case <-time.After(timeout):
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}
		writeJSON(w, games)
	}
}

func (s *GameServer) HandleBoard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.Board.Info())
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("writeJSON %v", err)
	}
}

func (s *GameServer) Stop() {
	close(s.quit)
}

func (s *GameServer) Loop() {
	log.Printf("GameServer.Loop starting")
	for {
		select {
		case <-s.quit:
			for _, gs := range s.GameSessions {
				gs.Stop()
			}
			log.Printf("GameServer.Loop stopped")
			return
		case gameReq := <-s.GameRequests:
			gameReq.GameContextAwaiting <- s.findOrCreate(gameReq)
		case reply := <-s.ListRequests:
			games := make([]GameInfo, 0, len(s.GameSessions))
			for _, gs := range s.GameSessions {
				games = append(games, gs.Info())
			}
			reply <- games
		case id := <-s.SessionsClosed:
			delete(s.GameSessions, id)
			log.WithField("game", id).Info("GameSession removed")
		}
	}
}

func (s *GameServer) findOrCreate(req GameRequest) GameContextAwaiting {
	if req.GameId != "" {
		gs, found := s.GameSessions[req.GameId]
		if !found {
			return GameContextAwaiting{ResponseCode: GAME_NOT_FOUND}
		}
		return GameContextAwaiting{ResponseCode: GAME_READY, GameSession: gs}
	}
	gs, err := NewGameSession(uuid.NewString(), s.Board, req.Players, s.NewDice(), s.ResolveDelay)
	if err != nil {
		log.Warnf("create GameSession: %v", err)
		return GameContextAwaiting{ResponseCode: GAME_INVALIDE}
	}
	gs.EmptyTimeout = s.EmptyTimeout
	gs.OnEmpty = func(id string) {
		select {
		case s.SessionsClosed <- id:
		case <-s.quit:
		}
	}
	s.GameSessions[gs.Id] = gs
	go gs.Loop()
	log.WithFields(log.Fields{"game": gs.Id, "players": req.Players}).Info("GameSession created")
	return GameContextAwaiting{ResponseCode: GAME_READY, GameSession: gs}
}

func NewGameSession(id string, board *model.Board, players int, dice model.Dice, resolveDelay time.Duration) (*GameSession, error) {
	m, err := model.NewModel(board, players, dice)
	if err != nil {
		return nil, err
	}
	gs := &GameSession{
		Id:                    id,
		State:                 GS_NEW,
		Model:                 m,
		ResolveDelay:          resolveDelay,
		EmptyTimeout:          emptyTimeout,
		ClientSessions:        make([]*ClientSession, 0),
		Errors:                make(chan int32),
		Events:                make(chan ClientEvent, outboxSize),
		PlayerConnectRequests: make(chan PlayerConnectRequest),
		nextClientId:          1,
		quit:                  make(chan struct{}),
	}
	gs.publish()
	return gs, nil
}

func (gs *GameSession) Stop() {
	gs.stopOnce.Do(func() { close(gs.quit) })
}

func (gs *GameSession) Info() GameInfo {
	gs.infoMu.RLock()
	defer gs.infoMu.RUnlock()
	return gs.info
}

func (gs *GameSession) publish() {
	gs.infoMu.Lock()
	defer gs.infoMu.Unlock()
	gs.info = GameInfo{
		Id:      gs.Id,
		Players: len(gs.Model.Players),
		Clients: len(gs.ClientSessions),
		Over:    gs.Model.Over(),
	}
}

func (gs *GameSession) Loop() {
	logger := log.WithField("game", gs.Id)
	logger.Info("GameSession.Loop start")
	idle := time.After(gs.EmptyTimeout)
	defer gs.shutdown()
	for {
		select {
		case <-gs.quit:
			return
		case <-idle:
			logger.Warn("GameSession.Loop nobody connected")
			return
		case pcr := <-gs.PlayerConnectRequests:
			idle = nil
			cs := gs.addClient(pcr.Con, pcr.GameOver)
			if gs.State == GS_NEW {
				gs.setState(GS_PLAY)
			}
			logger.Infof("GameSession.Loop client %d joined", cs.Id)
			gs.send(cs, gs.MakeGameSetupMessage())
		case id := <-gs.Errors:
			gs.dropClient(id)
		case ev := <-gs.Events:
			messageToClient, messageToAll := gs.Turn(ev)
			if messageToClient != nil {
				if cs := gs.client(ev.Client); cs != nil {
					gs.send(cs, *messageToClient)
				}
			}
			if messageToAll != nil {
				gs.broadcast(*messageToAll)
			}
		case <-gs.resolveTimer:
			gs.resolveTimer = nil
			gs.broadcast(gs.resolve())
		}
		gs.publish()
		if gs.State != GS_NEW && len(gs.ClientSessions) == 0 {
			logger.Info("GameSession.Loop last client left")
			return
		}
	}
}

func (gs *GameSession) shutdown() {
	gs.setState(GS_CLOSED)
	gs.Stop()
	for _, cs := range gs.ClientSessions {
		cs.close()
	}
	gs.ClientSessions = gs.ClientSessions[:0]
	gs.publish()
	if gs.OnEmpty != nil {
		gs.OnEmpty(gs.Id)
	}
}

// Turn applies one client action. Rejections go back to the sender only.
func (gs *GameSession) Turn(ev ClientEvent) (
	messageToClient *model.ServerMessage,
	messageToAll *model.ServerMessage) {
	m := gs.Model
	var mes model.ServerMessage
	switch ev.Action {
	case model.ACTION_ROLL:
		roll := 0
		if m.NeedsRoll() {
			roll = m.Dice.Roll()
		}
		out := m.ApplyMove(roll)
		if out.Kind == model.OUTCOME_MOVED && gs.ResolveDelay > 0 {
			gs.resolveTimer = time.After(gs.ResolveDelay)
		}
		gs.logOutcome(out)
		mes = m.Report(out)
	case model.ACTION_RESOLVE:
		gs.resolveTimer = nil
		mes = gs.resolve()
	case model.ACTION_RESTART:
		mes = gs.restart(ev.Players)
	default:
		mes = m.Report(model.Outcome{
			Kind:     model.OUTCOME_REJECTED,
			PlayerId: m.Active().Id,
			Message:  "Unknown action " + strconv.Quote(ev.Action) + "."})
	}

	if m.Over() {
		gs.setState(GS_OVER)
	} else {
		gs.setState(GS_PLAY)
	}
	if len(mes.Outcomes) > 0 && mes.Outcomes[0].Kind == model.OUTCOME_REJECTED {
		return &mes, nil
	}
	return nil, &mes
}

func (gs *GameSession) resolve() model.ServerMessage {
	out := gs.Model.ResolveEffectAndAdvance()
	gs.logOutcome(out)
	if gs.Model.Over() {
		gs.setState(GS_OVER)
	}
	return gs.Model.Report(out)
}

func (gs *GameSession) setState(state GameSessionState) {
	if gs.State == state {
		return
	}
	log.WithField("game", gs.Id).Infof("GameSession %s -> %s", gs.State.Name(), state.Name())
	gs.State = state
}

func (gs *GameSession) restart(players int) model.ServerMessage {
	m := gs.Model
	count, text := len(m.Players), model.MSG_RESTART
	if players != 0 && players != count {
		count, text = players, model.MSG_COUNT
	}
	if err := m.Restart(count); err != nil {
		return m.Report(model.Outcome{
			Kind:     model.OUTCOME_REJECTED,
			PlayerId: m.Active().Id,
			Message:  "Cannot restart: " + err.Error() + "."})
	}
	gs.resolveTimer = nil
	out := model.Outcome{Kind: model.OUTCOME_RESTARTED, PlayerId: m.Active().Id, Message: text}
	gs.logOutcome(out)
	mes := m.Report(out)
	mes.Setup = []model.Setup{m.MakeSetup(gs.Id)}
	return mes
}

func (gs *GameSession) logOutcome(out model.Outcome) {
	log.WithFields(log.Fields{
		"game":    gs.Id,
		"player":  out.PlayerId,
		"outcome": out.Kind.Name(),
		"tile":    out.Tile.Name(),
	}).Info(out.Message)
}

func (gs *GameSession) MakeGameSetupMessage() model.ServerMessage {
	mes := gs.Model.Report()
	mes.Setup = []model.Setup{gs.Model.MakeSetup(gs.Id)}
	return mes
}

func (gs *GameSession) addClient(
	conn *websocket.Conn,
	gameOver chan struct{},
) *ClientSession {
	cs := &ClientSession{
		State:          CS_NEW,
		Id:             gs.nextClientId,
		GameSession:    gs,
		Conn:           conn,
		GameOver:       gameOver,
		MessagesToSend: make(chan model.ServerMessage, outboxSize),
	}
	gs.nextClientId++
	conn.SetReadLimit(maxMessageSize)
	conn.SetPingHandler(
		func(message string) error {
			err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
			cs.DebugLastPing = time.Now()
			cs.DebugPings++
			if err == websocket.ErrCloseSent {
				return nil
			} else if e, ok := err.(net.Error); ok && e.Timeout() {
				return nil
			}
			return err
		})
	go cs.LoopChannelRead()
	go cs.LoopChannelWrite()
	gs.ClientSessions = append(gs.ClientSessions, cs)
	cs.setState(CS_PLAY)
	return cs
}

func (gs *GameSession) client(id int32) *ClientSession {
	for _, cs := range gs.ClientSessions {
		if cs.Id == id {
			return cs
		}
	}
	return nil
}

// dropClient removes a client whose connection failed.
func (gs *GameSession) dropClient(id int32) {
	if cs := gs.client(id); cs != nil {
		cs.setState(CS_ERR)
	}
	gs.removeClient(id)
}

func (gs *GameSession) removeClient(id int32) {
	for i, cs := range gs.ClientSessions {
		if cs.Id == id {
			log.WithField("game", gs.Id).Infof("removing client %d", id)
			cs.close()
			gs.ClientSessions = append(gs.ClientSessions[:i], gs.ClientSessions[i+1:]...)
			return
		}
	}
}

// send never blocks the session; a client that cannot keep up is dropped.
func (gs *GameSession) send(cs *ClientSession, mes model.ServerMessage) bool {
	select {
	case cs.MessagesToSend <- mes:
		return true
	default:
		log.Warnf("client %d outbox FULL, dropping it", cs.Id)
		gs.removeClient(cs.Id)
		return false
	}
}

func (gs *GameSession) broadcast(mes model.ServerMessage) {
	clients := append([]*ClientSession(nil), gs.ClientSessions...)
	for _, cs := range clients {
		gs.send(cs, mes)
	}
}

func (cs *ClientSession) close() {
	if cs.State == CS_CLOSED {
		return
	}
	cs.setState(CS_CLOSED)
	close(cs.MessagesToSend)
	close(cs.GameOver)
}

func (cs *ClientSession) setState(state ClientSessionState) {
	log.WithFields(log.Fields{"game": cs.GameSession.Id, "client": cs.Id}).
		Infof("ClientSession %s -> %s", cs.State.Name(), state.Name())
	cs.State = state
}

func (cs *ClientSession) report() {
	select {
	case cs.GameSession.Errors <- cs.Id:
	case <-cs.GameSession.quit:
	}
}

func (cs *ClientSession) LoopChannelRead() {
	log.Printf("LoopChannelRead STARTED client:%d", cs.Id)
	gs := cs.GameSession
loop:
	for {
		cm := model.ClientMessage{}
		if err := cs.Conn.ReadJSON(&cm); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("LoopChannelRead err reading message from Conn %v", err)
			}
			cs.report()
			break loop
		}
		cs.DebugLastMessage = time.Now()
		cs.DebugInMessages++

		select {
		case gs.Events <- ClientEvent{Client: cs.Id, Action: cm.Action, Players: cm.Players}:
		case <-gs.quit:
			break loop
		default:
			log.Warnf("Dropping message from client %d, GameSession.Events FULL", cs.Id)
		}
	}
	log.WithFields(log.Fields{
		"in":       cs.DebugInMessages,
		"pings":    cs.DebugPings,
		"lastIn":   cs.DebugLastMessage,
		"lastPing": cs.DebugLastPing,
	}).Printf("LoopChannelRead ENDED client:%d", cs.Id)
}

// LoopChannelWrite ends when the session closes MessagesToSend.
func (cs *ClientSession) LoopChannelWrite() {
	log.Printf("LoopChannelWrite STARTED client:%d", cs.Id)
	for mes := range cs.MessagesToSend {
		cs.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cs.Conn.WriteJSON(mes); err != nil {
			log.Warnf("LoopChannelWrite cant write %v", err)
			cs.report()
			break
		}
		cs.DebugOutMessages++
	}
	log.WithField("out", cs.DebugOutMessages).Printf("LoopChannelWrite ENDED client:%d", cs.Id)
}
