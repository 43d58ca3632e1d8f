package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/martijn/clientreg/internal/core/domain"
	"github.com/martijn/clientreg/internal/core/query"
	"github.com/martijn/clientreg/internal/core/repository"
	"github.com/martijn/clientreg/internal/core/service"
	"github.com/spf13/cobra"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage client records",
	Long:  "Inspect and edit client records directly, with the same validation the API applies",
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		filterExpr, _ := cmd.Flags().GetString("query")
		orderExpr, _ := cmd.Flags().GetString("order")

		q, err := query.Parse(filterExpr, orderExpr, repository.ClientFields)
		if err != nil {
			return err
		}

		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		clients, err := services.ClientService.ListClients(cmd.Context(), q)
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(clients) == 0 {
			fmt.Fprintln(out, "No clients found")
			return nil
		}

		printClients(out, clients...)
		return nil
	},
}

var clientsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseClientID(args[0])
		if err != nil {
			return err
		}

		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		client, err := services.ClientService.GetClient(cmd.Context(), id)
		if err != nil {
			return describeError(err, id)
		}

		printClients(cmd.OutOrStdout(), client)
		return nil
	},
}

var clientsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a client",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		client, err := services.ClientService.CreateClient(cmd.Context(), fieldsFromFlags(cmd))
		if err != nil {
			return describeError(err, 0)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Client %d created successfully\n", client.ID)
		printClients(cmd.OutOrStdout(), client)
		return nil
	},
}

var clientsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace every field of a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseClientID(args[0])
		if err != nil {
			return err
		}

		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		client, err := services.ClientService.UpdateClient(cmd.Context(), id, fieldsFromFlags(cmd))
		if err != nil {
			return describeError(err, id)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Client %d updated successfully\n", client.ID)
		printClients(cmd.OutOrStdout(), client)
		return nil
	},
}

var clientsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseClientID(args[0])
		if err != nil {
			return err
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Fprintf(cmd.OutOrStdout(), "Are you sure you want to delete client %d? (yes/no): ", id)
			var confirm string
			fmt.Fscanln(cmd.InOrStdin(), &confirm)
			if confirm != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
		}

		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		if err := services.ClientService.DeleteClient(cmd.Context(), id); err != nil {
			return describeError(err, id)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Client %d deleted successfully\n", id)
		return nil
	},
}

// fieldsFromFlags builds the raw payload from the flags that were actually
// given, so an omitted flag is reported as a missing field.
func fieldsFromFlags(cmd *cobra.Command) map[string]any {
	raw := make(map[string]any)
	for flag, field := range map[string]string{"name": "name", "age": "age", "state": "state_code"} {
		if cmd.Flags().Changed(flag) {
			value, _ := cmd.Flags().GetString(flag)
			raw[field] = value
		}
	}
	return raw
}

func parseClientID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %s", arg)
	}
	return id, nil
}

func describeError(err error, id int64) error {
	if rej, ok := service.AsRejection(err); ok {
		details := rej.Details()
		fields := make([]string, 0, len(details))
		for field := range details {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		msg := "validation failed:"
		for _, field := range fields {
			msg += fmt.Sprintf("\n  %s: %s", field, details[field])
		}
		return errors.New(msg)
	}
	if service.IsNotFound(err) {
		return fmt.Errorf("client not found: %d", id)
	}
	return err
}

func printClients(out io.Writer, clients ...*domain.Client) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAGE\tSTATE")
	for _, client := range clients {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", client.ID, client.Name, client.Age, client.StateCode)
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(clientsCmd)
	clientsCmd.AddCommand(clientsListCmd)
	clientsCmd.AddCommand(clientsGetCmd)
	clientsCmd.AddCommand(clientsAddCmd)
	clientsCmd.AddCommand(clientsUpdateCmd)
	clientsCmd.AddCommand(clientsDeleteCmd)

	clientsListCmd.Flags().String("query", "", "filter expression, e.g. state_code|SP,age|gte|18")
	clientsListCmd.Flags().String("order", "", "sort expression, e.g. age|desc")

	for _, c := range []*cobra.Command{clientsAddCmd, clientsUpdateCmd} {
		c.Flags().String("name", "", "client name")
		c.Flags().String("age", "", "client age in whole years")
		c.Flags().String("state", "", "two-letter state code")
	}

	clientsDeleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}
