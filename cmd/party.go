package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/client"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

var partyCmd = &cobra.Command{
	Use:   "party",
	Short: "Manage parties",
}

// party add
var (
	partyAddName        string
	partyAddContact     string
	partyAddRoles       []string
	partyAddOpening     string
	partyAddOpeningType string
)

var partyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new party",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)

		roles := make([]ledger.Role, len(partyAddRoles))
		for i, r := range partyAddRoles {
			roles[i] = ledger.Role(r)
		}

		created, err := c.CreateParty(context.Background(),
			partyAddName, partyAddContact, roles,
			partyAddOpening, ledger.BalanceType(partyAddOpeningType))
		if err != nil {
			return err
		}

		fmt.Printf("Party created: %s (%s) roles=%s\n",
			created.Name, created.ID, joinRoles(created.Roles))
		return nil
	},
}

// party list
var partyListRole string

var partyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List parties",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)

		parties, err := c.ListParties(context.Background(), partyListRole)
		if err != nil {
			return err
		}

		if len(parties) == 0 {
			fmt.Println("No parties found.")
			return nil
		}

		fmt.Printf("%-38s %-30s %-22s %12s %s\n", "ID", "NAME", "ROLES", "OPENING", "DR/CR")
		for _, p := range parties {
			name := p.Name
			if len(name) > 28 {
				name = name[:28] + ".."
			}
			fmt.Printf("%-38s %-30s %-22s %12s %s\n",
				p.ID, name, joinRoles(p.Roles),
				ledger.FormatRupees(p.OpeningBalance), p.OpeningBalanceType)
		}
		return nil
	},
}

// party get
var partyGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get party details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)

		p, err := c.GetParty(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:      %s\n", p.ID)
		fmt.Printf("Name:    %s\n", p.Name)
		fmt.Printf("Contact: %s\n", p.Contact)
		fmt.Printf("Roles:   %s\n", joinRoles(p.Roles))
		fmt.Printf("Opening: %s %s\n", ledger.FormatRupees(p.OpeningBalance), p.OpeningBalanceType)
		fmt.Printf("Class:   %s\n", p.Class())
		fmt.Printf("Created: %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

// party delete
var partyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a party (refused while documents reference it)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)
		if err := c.DeleteParty(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Party %s deleted\n", args[0])
		return nil
	},
}

func joinRoles(roles []ledger.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

func init() {
	partyAddCmd.Flags().StringVar(&partyAddName, "name", "", "Party name")
	partyAddCmd.Flags().StringVar(&partyAddContact, "contact", "", "Phone or address")
	partyAddCmd.Flags().StringSliceVar(&partyAddRoles, "roles", nil, "Roles (customer,supplier,partner,owner,employee,carting,cash,bank,upi)")
	partyAddCmd.Flags().StringVar(&partyAddOpening, "opening", "", "Opening balance in rupees (e.g. 2500.00)")
	partyAddCmd.Flags().StringVar(&partyAddOpeningType, "opening-type", "DR", "Opening balance type (DR or CR)")
	partyAddCmd.MarkFlagRequired("name")
	partyAddCmd.MarkFlagRequired("roles")

	partyListCmd.Flags().StringVar(&partyListRole, "role", "", "Filter by role")

	partyCmd.AddCommand(partyAddCmd)
	partyCmd.AddCommand(partyListCmd)
	partyCmd.AddCommand(partyGetCmd)
	partyCmd.AddCommand(partyDeleteCmd)

	rootCmd.AddCommand(partyCmd)
}
