package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomodakengo/kensa-sub001/errors"
	"github.com/tomodakengo/kensa-sub001/locatormodels"
)

func newListCmd(a *app) *cobra.Command {
	var page string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all locators by full name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.openRegistry(cmd)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, d := range reg.GetAllLocators() {
				if page != "" && d.Page != page {
					continue
				}
				fmt.Fprintln(w, d.FullName())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&page, "page", "", "only list locators of this page")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <page.locator>",
		Short: "Show one locator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.openRegistry(cmd)
			if err != nil {
				return err
			}
			d, ok := reg.GetLocator(args[0])
			if !ok {
				return errors.NewNotFoundError("locator", args[0])
			}
			return render(cmd.OutOrStdout(), a.output, d)
		},
	}
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <page.locator>",
		Short: "Print the selectors of a locator in the order they are tried",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.openRegistry(cmd)
			if err != nil {
				return err
			}
			selectors, ok := reg.ResolveSelectors(args[0])
			if !ok {
				return errors.NewNotFoundError("locator", args[0])
			}
			return render(cmd.OutOrStdout(), a.output, selectors)
		},
	}
}

func newSaveCmd(a *app) *cobra.Command {
	var (
		attrs      locatormodels.Attributes
		strategies []string
	)

	cmd := &cobra.Command{
		Use:   "save <page> <locator>",
		Short: "Create or replace a locator",
		Example: `  locatorctl save Login submit --automation-id btnSubmit \
    --strategy "xpath=//Button[@Name='Sign in']" --strategy "css=.primary:5"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed := make([]locatormodels.Strategy, 0, len(strategies))
			for _, raw := range strategies {
				s, err := parseStrategy(raw)
				if err != nil {
					return err
				}
				parsed = append(parsed, s)
			}

			reg, err := a.openRegistry(cmd)
			if err != nil {
				return err
			}
			key, err := reg.SaveLocator(cmd.Context(), args[0], args[1], attrs, parsed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", key)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&attrs.AutomationID, "automation-id", "", "automationId attribute")
	flags.StringVar(&attrs.Name, "name", "", "UI name attribute")
	flags.StringVar(&attrs.ClassName, "class-name", "", "className attribute")
	flags.StringVar(&attrs.ControlType, "control-type", "", "controlType attribute")
	flags.StringVar(&attrs.Description, "description", "", "free-form description")
	flags.StringArrayVar(&strategies, "strategy", nil,
		"explicit strategy as type=value[:priority] (repeatable)")
	return cmd
}

// parseStrategy parses type=value[:priority]. The priority suffix is only
// taken when it is a non-negative integer, so values such as "a:hover" keep
// their colon.
func parseStrategy(raw string) (locatormodels.Strategy, error) {
	typ, value, ok := strings.Cut(raw, "=")
	if !ok || typ == "" {
		return locatormodels.Strategy{}, errors.NewValidationError("strategy",
			fmt.Sprintf("%q must look like type=value[:priority]", raw))
	}

	s := locatormodels.Strategy{Type: typ, Value: value}
	if i := strings.LastIndex(value, ":"); i >= 0 {
		if p, err := strconv.Atoi(value[i+1:]); err == nil && p >= 0 {
			s.Value = value[:i]
			s.Priority = p
		}
	}
	return s, nil
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <page.locator>",
		Short: "Delete a locator; the page goes away with its last locator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.openRegistry(cmd)
			if err != nil {
				return err
			}
			if err := reg.DeleteLocator(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
