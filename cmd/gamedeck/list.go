package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the games and managed applications in the profile",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	profile, _, err := loadProfile()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Games (%d):\n", len(profile.Games))
	for _, game := range profile.Games {
		fmt.Fprintf(out, "  %-20s %s [%s]", game.ID, game.Name, game.Platform)
		if len(game.Apps) > 0 {
			fmt.Fprintf(out, "  apps: %s", strings.Join(game.Apps, ", "))
		}
		fmt.Fprintln(out)
	}

	ids := make([]string, 0, len(profile.Apps))
	for id := range profile.Apps {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintf(out, "Managed applications (%d):\n", len(profile.Apps))
	for _, id := range ids {
		app := profile.Apps[id]
		fmt.Fprintf(out, "  %-20s startup=%s shutdown=%s\n", id, app.StartupVerb, app.ShutdownVerb)
	}
	return nil
}
