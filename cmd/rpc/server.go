package rpc

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/meridian-protocol/meridian/gov"
	"github.com/meridian-protocol/meridian/lib"
	"github.com/meridian-protocol/meridian/lib/crypto"
	"github.com/rs/cors"
)

const (
	colon = ":"

	SoftwareVersion = "0.1.0-alpha"
	ContentType     = "Content-Type"
	ApplicationJSON = "application/json; charset=utf-8"

	requestTimeout = 10 * time.Second
	maxRequestBody = 1 << 20 // 1 MB
)

/*
	The RPC server is a thin HTTP surface over a single StateMachine instance.

	In production the machine is driven by the host ledger and this surface is
	query-only; the transaction route exists for development and testing nodes
	where the submitter states its own caller identity.
*/

// Server represents a Meridian RPC server
type Server struct {
	sm     *gov.StateMachine
	config lib.Config
	mux    sync.RWMutex // the state machine itself is single-writer
	logger lib.LoggerI
}

// NewServer() constructs and returns a new Meridian RPC server
func NewServer(sm *gov.StateMachine, config lib.Config, logger lib.LoggerI) *Server {
	return &Server{sm: sm, config: config, logger: logger}
}

// Start() initializes the RPC server
func (s *Server) Start() {
	go s.startRPC(createRouter(s), s.config.RPCPort)
}

// startRPC() starts an RPC server with the provided router and port
func (s *Server) startRPC(router *httprouter.Router, port string) {
	cor := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS", "POST"},
	})
	s.logger.Infof("Starting RPC server at 0.0.0.0:%s", port)
	s.logger.Fatal((&http.Server{
		Addr:    colon + port,
		Handler: cor.Handler(http.TimeoutHandler(router, requestTimeout, "server timeout")),
	}).ListenAndServe().Error())
}

// Version writes Meridian software's version information
func (s *Server) Version(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	write(w, SoftwareVersion, http.StatusOK)
}

// heightResponse is the payload of the height route
type heightResponse struct {
	Height uint64 `json:"height"`
}

// Height responds with the ledger height the machine is executing at
func (s *Server) Height(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	write(w, &heightResponse{Height: s.sm.Height()}, http.StatusOK)
}

// Config responds with the governance parameters
func (s *Server) Config(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.read(w, func() (any, lib.ErrorI) { return s.sm.GetConfig() })
}

// State responds with the aggregate accounting record
func (s *Server) State(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.read(w, func() (any, lib.ErrorI) { return s.sm.GetGlobalState() })
}

// Staker responds with the staker record for the address in the path
func (s *Server) Staker(w http.ResponseWriter, _ *http.Request, p httprouter.Params) {
	addr, err := crypto.NewAddressFromString(p.ByName("address"))
	if err != nil {
		write(w, lib.ErrInvalidAddress(), http.StatusBadRequest)
		return
	}
	s.read(w, func() (any, lib.ErrorI) { return s.sm.GetStakerAccount(addr) })
}

// Stakers responds with every staker record
func (s *Server) Stakers(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.read(w, func() (any, lib.ErrorI) { return s.sm.GetStakers() })
}

// Poll responds with the poll record for the id in the path
func (s *Server) Poll(w http.ResponseWriter, _ *http.Request, p httprouter.Params) {
	id, err := strconv.ParseUint(p.ByName("id"), 10, 64)
	if err != nil {
		write(w, lib.ErrInvalidArgument(), http.StatusBadRequest)
		return
	}
	s.read(w, func() (any, lib.ErrorI) { return s.sm.GetPoll(id) })
}

// Polls responds with every poll, optionally filtered by a ?status= query
func (s *Server) Polls(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := gov.PollStatusUnknown
	if status := r.URL.Query().Get("status"); status != "" {
		parsed, err := gov.ParsePollStatus(status)
		if err != nil {
			write(w, err, http.StatusBadRequest)
			return
		}
		filter = parsed
	}
	s.read(w, func() (any, lib.ErrorI) { return s.sm.GetPolls(filter) })
}

// TxRequest is the submit envelope of the transaction route
type TxRequest struct {
	Caller lib.HexBytes    `json:"caller"` // the stated caller identity; the host ledger supplies this in production
	Name   string          `json:"name"`   // the routing name of the message
	Msg    json.RawMessage `json:"msg"`    // the message body
}

// Transaction submits a governance message against the state machine
func (s *Server) Transaction(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	request := new(TxRequest)
	if ok := unmarshal(w, r, request); !ok {
		return
	}
	msg, err := newMessageFromName(request.Name)
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	if e := lib.UnmarshalJSON(request.Msg, msg); e != nil {
		write(w, e, http.StatusBadRequest)
		return
	}
	if len(request.Caller) != crypto.AddressSize {
		write(w, lib.ErrInvalidAddress(), http.StatusBadRequest)
		return
	}
	caller := crypto.NewAddressFromBytes(request.Caller)
	s.mux.Lock()
	defer s.mux.Unlock()
	if e := s.sm.ApplyMessage(caller, msg); e != nil {
		write(w, e, http.StatusBadRequest)
		return
	}
	// each accepted transaction is committed as its own block, advancing the height
	if e := s.sm.Commit(); e != nil {
		write(w, e, http.StatusInternalServerError)
		return
	}
	write(w, request, http.StatusOK)
}

// newMessageFromName() returns an empty concrete message for the routing name
func newMessageFromName(name string) (gov.MessageI, lib.ErrorI) {
	switch name {
	case gov.MessageDepositName:
		return new(gov.MessageDeposit), nil
	case gov.MessageWithdrawName:
		return new(gov.MessageWithdraw), nil
	case gov.MessageCastVoteName:
		return new(gov.MessageCastVote), nil
	case gov.MessageEndPollName:
		return new(gov.MessageEndPoll), nil
	case gov.MessageExecutePollName:
		return new(gov.MessageExecutePoll), nil
	case gov.MessageUpdateConfigName:
		return new(gov.MessageUpdateConfig), nil
	default:
		return nil, gov.ErrUnknownMessage(name)
	}
}

// read() serves a read-only view under the read lock
func (s *Server) read(w http.ResponseWriter, callback func() (any, lib.ErrorI)) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	result, err := callback()
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	write(w, result, http.StatusOK)
}

// unmarshal reads request body and unmarshals it into ptr
func unmarshal(w http.ResponseWriter, r *http.Request, ptr any) bool {
	bz, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		write(w, err.Error(), http.StatusBadRequest)
		return false
	}
	defer func() { _ = r.Body.Close() }()
	if err = json.Unmarshal(bz, ptr); err != nil {
		write(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// write marshaled payload to w
func write(w http.ResponseWriter, payload any, code int) {
	w.Header().Set(ContentType, ApplicationJSON)
	w.WriteHeader(code)
	bz, _ := json.MarshalIndent(payload, "", "  ")
	_, _ = w.Write(bz)
}
