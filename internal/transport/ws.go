package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/aadamsx/josson/internal/ledger"
	"github.com/aadamsx/josson/internal/node"
	"github.com/aadamsx/josson/internal/policy"
	"github.com/aadamsx/josson/internal/query"
	"github.com/aadamsx/josson/internal/transport/auth"
	applog "github.com/aadamsx/josson/log"
)

const writeTimeout = 10 * time.Second

// mergeRequest/mergeResponse and evalRequest/evalResponse are the JSON
// bodies carried in a Msg's Raw field for SubjMerge/SubjEval.
type mergeRequest struct {
	User     string `json:"user"`
	Template string `json:"template"`
}

type mergeResponse struct {
	EventID string `json:"eventId,omitempty"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
}

type evalRequest struct {
	User  string `json:"user"`
	Query string `json:"query"`
}

type evalResponse struct {
	EventID string      `json:"eventId,omitempty"`
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Server pairs a Hub with the query Engine it serves and the Signer that
// guards every non-signon message.
type Server struct {
	Hub    *Hub
	Engine *query.Engine
	Tokens auth.Signer
	// Hash is the bcrypt hash every incoming Msg.Tok is verified against;
	// empty disables authorization.
	Hash   string
	Ledger *ledger.Ledger
	Log    applog.Logger
	// Policy, if set, gates every merge/eval request's User field against
	// the "merge"/"eval" action names before it reaches the engine; a nil
	// Policy leaves every signed-in user free to call both.
	Policy *policy.Rules
}

// NewServer returns a Server ready to be wrapped by Handler. hash is the
// bcrypt hash produced by Tokens.Sign for the passphrase clients must send
// as their bearer token; pass "" to run unauthenticated.
func NewServer(engine *query.Engine, tokens auth.Signer, hash string) *Server {
	l := applog.Root.With("component", "transport")
	return &Server{Hub: NewHub(), Engine: engine, Tokens: tokens, Hash: hash, Ledger: ledger.NewLedger(), Log: l}
}

// Route implements Router: it is the single dispatch point the Hub calls
// for every message, including sign-on/off.
func (s *Server) Route(m *Msg) {
	switch m.Subj {
	case SubjSignon, SubjSignoff:
		return
	case SubjMerge:
		if err := s.authorize(m.Tok); err != nil {
			s.reply(m, SubjMerge, mergeResponse{Error: err.Error()})
			return
		}
		s.handleMerge(m)
	case SubjEval:
		if err := s.authorize(m.Tok); err != nil {
			s.reply(m, SubjEval, evalResponse{Error: err.Error()})
			return
		}
		s.handleEval(m)
	default:
		s.Log.Error("unknown message subject", "subj", m.Subj)
	}
}

// authorize checks a request's bearer token against s.Hash; an empty Hash
// leaves the server open, for local/unauthenticated use.
func (s *Server) authorize(tok []byte) error {
	if s.Hash == "" || s.Tokens == nil {
		return nil
	}
	return s.Tokens.Verify(s.Hash, string(tok))
}

// police checks user against s.Policy for the given action name; a nil
// Policy or an empty user (the unauthenticated default) leaves the call
// unpoliced.
func (s *Server) police(user, action string) error {
	if s.Policy == nil || user == "" {
		return nil
	}
	return s.Policy.Police(user, action)
}

func (s *Server) handleMerge(m *Msg) {
	var req mergeRequest
	resp := mergeResponse{}
	if err := json.Unmarshal(m.Raw, &req); err != nil {
		resp.Error = err.Error()
	} else if err := s.police(req.User, SubjMerge); err != nil {
		resp.Error = err.Error()
	} else if text, err := s.Engine.FillInPlaceholder(req.Template); err != nil {
		resp.Error = err.Error()
		resp.Text = text
	} else {
		resp.Text = text
	}
	resp.EventID = s.Ledger.Append("merge", req.Template, resp.Text, resp.Error).ID.String()
	s.reply(m, SubjMerge, resp)
}

func (s *Server) handleEval(m *Msg) {
	var req evalRequest
	resp := evalResponse{}
	result := ""
	if err := json.Unmarshal(m.Raw, &req); err != nil {
		resp.Error = err.Error()
	} else if err := s.police(req.User, SubjEval); err != nil {
		resp.Error = err.Error()
	} else if val, err := s.Engine.EvaluateQuery(req.Query); err != nil {
		resp.Error = err.Error()
	} else {
		result = node.Marshal(val)
		resp.Result = json.RawMessage(result)
	}
	resp.EventID = s.Ledger.Append("eval", req.Query, result, resp.Error).ID.String()
	s.reply(m, SubjEval, resp)
}

func (s *Server) reply(m *Msg, subj string, body interface{}) {
	raw, err := json.Marshal(body)
	if err != nil {
		s.Log.Error("marshal reply failed", "err", err)
		return
	}
	m.From.Chan() <- &Msg{From: s.Hub, Subj: subj, Raw: raw}
}

// Handler returns an http.HandlerFunc that upgrades each request to a
// websocket connection and feeds it into s.Hub, adapted from
// mb0-daql's wshub.Serve.
func (s *Server) Handler() http.HandlerFunc {
	upgr := &websocket.Upgrader{}
	return func(w http.ResponseWriter, r *http.Request) {
		wc, err := upgr.Upgrade(w, r, nil)
		if err != nil {
			s.Log.Error("websocket upgrade failed", "err", err)
			return
		}
		c := &wsConn{id: NextID(), wc: wc, route: s.Hub.Chan(), send: make(chan *Msg, 32)}
		t := time.NewTicker(60 * time.Second)
		defer t.Stop()
		Signon(s.Hub, c)
		go writeLoop(c, t)
		if err := c.readLoop(); err != nil {
			s.Log.Error("websocket read failed", "err", err)
		}
		Signoff(s.Hub, c)
	}
}

type wsConn struct {
	id    int64
	wc    *websocket.Conn
	route chan<- *Msg
	send  chan *Msg
}

func (c *wsConn) ID() int64         { return c.id }
func (c *wsConn) Chan() chan<- *Msg { return c.send }

func (c *wsConn) readLoop() error {
	for {
		op, r, err := c.wc.NextReader()
		if err != nil {
			if cerr, ok := err.(*websocket.CloseError); ok && cerr.Code == websocket.CloseGoingAway {
				return nil
			}
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil
			}
			return errors.Wrap(err, "websocket next reader")
		}
		if op != websocket.TextMessage {
			continue
		}
		m, err := readMsg(r)
		if err != nil {
			return errors.Wrap(err, "websocket message decode")
		}
		m.From = c
		c.route <- m
	}
}

func writeLoop(c *wsConn, t *time.Ticker) {
	defer c.wc.Close()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.writeMsg(msg); err != nil {
				return
			}
		case <-t.C:
			c.wc.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.wc.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}

// readMsg decodes the wire form "subj#tok\nraw", mirroring wshub's framing.
func readMsg(r io.Reader) (*Msg, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	head := buf.Bytes()
	var tok, raw []byte
	if idx := bytes.IndexByte(head, '\n'); idx >= 0 {
		head, raw = head[:idx], head[idx+1:]
	}
	if idx := bytes.IndexByte(head, '#'); idx >= 0 {
		head, tok = head[:idx], head[idx+1:]
	}
	if len(head) == 0 {
		return nil, errors.New("message without subject")
	}
	return &Msg{Subj: string(head), Tok: copyBytes(tok), Raw: copyBytes(raw)}, nil
}

func (c *wsConn) writeMsg(m *Msg) error {
	var buf bytes.Buffer
	buf.WriteString(m.Subj)
	if len(m.Tok) != 0 {
		buf.WriteByte('#')
		buf.Write(m.Tok)
	}
	if len(m.Raw) != 0 {
		buf.WriteByte('\n')
		buf.Write(m.Raw)
	}
	c.wc.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.wc.WriteMessage(websocket.TextMessage, buf.Bytes())
}

func copyBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
