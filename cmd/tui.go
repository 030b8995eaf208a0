package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/client"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/server"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/store"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/tui"
)

const embeddedAddr = "127.0.0.1:8090"

// startEmbedded runs an in-process API server when no --server was
// given, and blocks until it answers.
func startEmbedded(cmd *cobra.Command) (string, func(), error) {
	if cmd.Flags().Changed("server") {
		return flagServer, func() {}, nil
	}

	st, err := store.Open(flagDB)
	if err != nil {
		return "", nil, fmt.Errorf("open database: %w", err)
	}

	srv := server.New(st, embeddedAddr)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Error().Err(err).Msg("embedded server error")
		}
	}()
	serverAddr := "http://" + embeddedAddr

	c := client.New(serverAddr, flagCompany)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		if err := c.Ping(ctx); err == nil {
			break
		}
		if ctx.Err() != nil {
			st.Close()
			return "", nil, fmt.Errorf("timeout waiting for embedded server")
		}
		time.Sleep(50 * time.Millisecond)
	}

	return serverAddr, func() { st.Close() }, nil
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		serverAddr, cleanup, err := startEmbedded(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		c := client.New(serverAddr, flagCompany)
		app := tui.NewApp(c)
		p := tea.NewProgram(app, tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
