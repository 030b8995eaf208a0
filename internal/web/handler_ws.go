package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// snapshot is one push to the browser: the drill-down for the selected
// metric plus the headline views.
type snapshot struct {
	Dashboard   any    `json:"dashboard"`
	Outstanding any    `json:"outstanding"`
	ProfitLoss  any    `json:"profit_loss"`
	Metric      string `json:"metric"`
	At          string `json:"at"`
}

type controlMsg struct {
	Type   string `json:"type"`
	Metric string `json:"metric"`
}

const pushInterval = 3 * time.Second

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	metric := make(chan string, 1)
	metric <- "sales"

	// Browser -> server: metric switches only.
	go func() {
		defer cancel()
		for {
			var msg controlMsg
			if err := wsjson.Read(ctx, conn, &msg); err != nil {
				return
			}
			if msg.Type == "metric" && msg.Metric != "" {
				select {
				case metric <- msg.Metric:
				default:
				}
			}
		}
	}()

	current := "sales"
	ticker := time.NewTicker(pushInterval)
	defer ticker.Stop()

	for {
		select {
		case m := <-metric:
			current = m
		case <-ticker.C:
		case <-ctx.Done():
			return
		}

		snap, err := s.buildSnapshot(ctx, current)
		if err != nil {
			s.log.Error().Err(err).Msg("build snapshot")
			continue
		}
		if err := wsjson.Write(ctx, conn, snap); err != nil {
			return
		}
	}
}

func (s *Server) buildSnapshot(ctx context.Context, metric string) (*snapshot, error) {
	dash, err := s.api.Dashboard(ctx, metric, 0, 0)
	if err != nil {
		return nil, err
	}
	out, err := s.api.Outstanding(ctx, "")
	if err != nil {
		return nil, err
	}
	pnl, err := s.api.ProfitAndLoss(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := json.Marshal(dash.YearRows)
	if err != nil {
		return nil, err
	}

	return &snapshot{
		Dashboard:   json.RawMessage(rows),
		Outstanding: out,
		ProfitLoss:  pnl,
		Metric:      metric,
		At:          time.Now().UTC().Format(time.RFC3339),
	}, nil
}
