package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artpar/tiger/config"
	"github.com/artpar/tiger/domain/item"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Look up items defined by the game and the mod",
	Long: `Look up the named items scripts refer to: traits, titles, cultures,
scripted effects, localization keys and so on.

With index.dsn (or --index-db) set, the index saved by the last run is
used; --fresh reloads it from the files.

Examples:
  tiger items kinds
  tiger items list trait --mod my_mod
  tiger items list title k_ --mod my_mod
  tiger items check scripted_effect my_effect --mod my_mod`,
}

var itemsKindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List item kinds",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, k := range item.Kinds() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", k, k.Path())
		}
	},
}

var itemsListCmd = &cobra.Command{
	Use:   "list <kind> [prefix]",
	Short: "List items of a kind",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runItemsList,
}

var itemsCheckCmd = &cobra.Command{
	Use:   "check <kind> <name>",
	Short: "Check that an item is defined",
	Args:  cobra.ExactArgs(2),
	RunE:  runItemsCheck,
}

var (
	itemsMod     string
	itemsGame    string
	itemsIndexDB string
	itemsFormat  string
	itemsFresh   bool
)

func init() {
	rootCmd.AddCommand(itemsCmd)

	itemsCmd.AddCommand(itemsKindsCmd)
	itemsCmd.AddCommand(itemsListCmd)
	itemsCmd.AddCommand(itemsCheckCmd)

	itemsCmd.PersistentFlags().StringVarP(&itemsMod, "mod", "m", "", "mod directory or descriptor.mod")
	itemsCmd.PersistentFlags().StringVar(&itemsGame, "game", "", "game directory (default: search the Steam library)")
	itemsCmd.PersistentFlags().StringVar(&itemsIndexDB, "index-db", "", "sqlite file holding a saved item index")
	itemsCmd.PersistentFlags().StringVar(&itemsFormat, "format", "", "output format: console, table, json, yaml")
	itemsCmd.PersistentFlags().BoolVar(&itemsFresh, "fresh", false, "reload the index from the files")
}

func itemsOverrides(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		flags := cmd.Flags()
		if flags.Changed("game") {
			cfg.Game.Path = itemsGame
		}
		if flags.Changed("index-db") {
			cfg.Index.DSN = itemsIndexDB
		}
		if flags.Changed("format") {
			cfg.Report.Format = itemsFormat
		}
	}
}

func parseKind(s string) (item.Kind, error) {
	if k, ok := item.ParseKind(s); ok {
		return k, nil
	}
	names := make([]string, 0, len(item.Kinds()))
	for _, k := range item.Kinds() {
		names = append(names, k.String())
	}
	return 0, fmt.Errorf("unknown item kind %q; one of %s", s, strings.Join(names, ", "))
}

func runItemsList(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	prefix := ""
	if len(args) > 1 {
		prefix = args[1]
	}

	a, err := newApp(cmd, itemsMod, itemsOverrides(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	ix, err := a.Index(cmd.Context(), itemsFresh)
	if err != nil {
		return err
	}
	return a.WriteItems(ix.Items(kind, prefix))
}

func runItemsCheck(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd, itemsMod, itemsOverrides(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	ix, err := a.Index(cmd.Context(), itemsFresh)
	if err != nil {
		return err
	}

	it, ok := ix.Get(kind, args[1])
	if !ok {
		return fmt.Errorf("%s `%s` not defined in %s", kind, args[1], kind.Path())
	}
	origin := "MOD"
	if it.Vanilla {
		origin = "CK3"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s `%s` defined at [%s] %s:%d\n", kind, it.Name, origin, it.Path, it.Line)
	return nil
}
