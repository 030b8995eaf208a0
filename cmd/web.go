package cmd

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/client"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/web"
)

var (
	webPort int
	webHost string
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Launch the live dashboard in a browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		apiAddr, cleanup, err := startEmbedded(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		listenAddr := net.JoinHostPort(webHost, fmt.Sprintf("%d", webPort))
		fmt.Printf("gurukrupa dashboard: http://%s\n", listenAddr)

		webSrv := web.NewServer(listenAddr, client.New(apiAddr, flagCompany))
		return webSrv.ListenAndServe()
	},
}

func init() {
	webCmd.Flags().IntVar(&webPort, "port", 8091, "HTTP port for the dashboard")
	webCmd.Flags().StringVar(&webHost, "host", "localhost", "HTTP host for the dashboard")
	rootCmd.AddCommand(webCmd)
}
