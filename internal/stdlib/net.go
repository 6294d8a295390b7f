package stdlib

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ilex-lang/ilex/internal/machine"
	"github.com/ilex-lang/ilex/internal/native"
	"github.com/ilex-lang/ilex/internal/reducer"
	"github.com/ilex-lang/ilex/internal/value"
)

// Net wraps gorilla/websocket connections as Opaque channel values
// (category "Net.channel"): Net.dial opens a client connection,
// Net.send/Net.recv move Text frames, Net.close releases the handle.
type Net struct{}

func (Net) Imports() []string { return []string{"System"} }

func (Net) Exports(m *machine.Machine, r *reducer.Reducer) []value.Combinator {
	ioEOF := m.GetDataString("IO", "eof")
	netErr := m.GetDataString("Net", "error")
	nop := m.GetDataString("System", "nop")

	def := func(local string, class native.ArityClass, body native.Body) value.Combinator {
		return native.New(m.EnterSymbol("Net", local), "Net", local, class, body)
	}

	dial := def("dial", native.Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		url, ok := args[0].(value.Text)
		if !ok {
			return nil, value.Bottom, nil
		}
		dialer := websocket.DefaultDialer
		dialer.HandshakeTimeout = 10 * time.Second
		conn, _, err := dialer.Dial(string(url), nil)
		if err != nil {
			return nil, value.Thrown, netErr
		}
		return wrapChannel(conn), value.OK, nil
	})

	send := def("send", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		conn, ok := channelOf(args[0])
		if !ok {
			return nil, value.Bottom, nil
		}
		msg, ok := args[1].(value.Text)
		if !ok {
			return nil, value.Bottom, nil
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			return nil, value.Thrown, netErr
		}
		return nop, value.OK, nil
	})

	recv := def("recv", native.Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		conn, ok := channelOf(args[0])
		if !ok {
			return nil, value.Bottom, nil
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return nil, value.Thrown, ioEOF
		}
		return value.Text(data), value.OK, nil
	})

	closeCh := def("close", native.Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		conn, ok := channelOf(args[0])
		if !ok {
			return nil, value.Bottom, nil
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
		return nop, value.OK, nil
	})

	return []value.Combinator{dial, send, recv, closeCh}
}

func wrapChannel(conn *websocket.Conn) value.Opaque {
	return value.Opaque{
		Category: "Net.channel",
		Handle:   conn,
		Less: func(a, b interface{}) bool {
			// Pointers have no native order; compare by address string,
			// stable enough to make comparison total.
			return fmt.Sprintf("%p", a.(*websocket.Conn)) < fmt.Sprintf("%p", b.(*websocket.Conn))
		},
	}
}

func channelOf(v value.Value) (*websocket.Conn, bool) {
	o, ok := v.(value.Opaque)
	if !ok || o.Category != "Net.channel" {
		return nil, false
	}
	conn, ok := o.Handle.(*websocket.Conn)
	return conn, ok
}
