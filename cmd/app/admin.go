package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/NastyaGoryachaya/block-aggregator/internal/app"
	"github.com/NastyaGoryachaya/block-aggregator/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type providerInput struct {
	Name        string  `validate:"required,max=255"`
	URLTemplate string  `validate:"required,contains={currency}"`
	APIKey      *string `validate:"omitempty,max=255"`
}

type currencyInput struct {
	Name string `validate:"required,max=64,excludesall=/?#"`
}

// newProvider - проверяет ввод; шаблон после подстановки валюты должен быть http(s) URL
func newProvider(in providerInput) (domain.Provider, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.URLTemplate = strings.TrimSpace(in.URLTemplate)
	if err := validate.Struct(in); err != nil {
		return domain.Provider{}, err
	}
	p := domain.Provider{Name: in.Name, URLTemplate: in.URLTemplate, APIKey: in.APIKey}
	if err := validate.Var(p.URLFor(domain.Currency{Name: "bitcoin"}), "http_url"); err != nil {
		return domain.Provider{}, fmt.Errorf("url template: %w", err)
	}
	return p, nil
}

func newCurrency(in currencyInput) (domain.Currency, error) {
	in.Name = strings.ToLower(strings.TrimSpace(in.Name))
	if err := validate.Struct(in); err != nil {
		return domain.Currency{}, err
	}
	return domain.Currency{Name: in.Name}, nil
}

func initAdminCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "initadmin",
		Short: "Create the configured superuser if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			su := cfg.Superuser
			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app.App, _ *slog.Logger) error {
				created, err := a.Auth().EnsureSuperuser(ctx, su.Username, su.Email, su.Password)
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "superuser %q created\n", su.Username)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "superuser %q already exists\n", su.Username)
				}
				return nil
			})
		},
	}
}

func providerCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "provider", Short: "Manage explorer providers"}

	var (
		in     providerInput
		apiKey string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("api-key") {
				in.APIKey = &apiKey
			}
			p, err := newProvider(in)
			if err != nil {
				return err
			}
			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app.App, _ *slog.Logger) error {
				created, err := a.Registry().CreateProvider(ctx, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "provider %d %s\n", created.ID, created.Name)
				return nil
			})
		},
	}
	add.Flags().StringVar(&in.Name, "name", "", "Provider name")
	add.Flags().StringVar(&in.URLTemplate, "url", "", "URL template with {currency} placeholder")
	add.Flags().StringVar(&apiKey, "api-key", "", "API key sent as X-CMC_PRO_API_KEY")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("url")

	list := &cobra.Command{
		Use:   "list",
		Short: "List providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app.App, _ *slog.Logger) error {
				items, err := a.Registry().ListProviders(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tURL\tAPI KEY")
				for _, p := range items {
					fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", p.ID, p.Name, p.URLTemplate, p.HasAPIKey())
				}
				return w.Flush()
			})
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func currencyCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "currency", Short: "Manage currencies"}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a currency (name is substituted into provider URLs)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCurrency(currencyInput{Name: args[0]})
			if err != nil {
				return err
			}
			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app.App, _ *slog.Logger) error {
				created, err := a.Registry().CreateCurrency(ctx, c)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "currency %d %s\n", created.ID, created.Name)
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List currencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app.App, _ *slog.Logger) error {
				items, err := a.Registry().ListCurrencies(ctx)
				if err != nil {
					return err
				}
				for _, c := range items {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", c.ID, c.Name)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}
