// Command authentication manages API users from the command line: it
// registers accounts and issues token pairs without going through HTTP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/gartstein/companyemployees/internal/company/auth"
	"github.com/gartstein/companyemployees/internal/company/config"
	"github.com/gartstein/companyemployees/internal/company/controller"
	"github.com/gartstein/companyemployees/internal/company/db"
	"github.com/gartstein/companyemployees/internal/company/events"
	"github.com/gartstein/companyemployees/internal/company/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type env struct {
	service *controller.AuthenticationService
	close   func()
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "authentication",
		Short:        "Register users and issue tokens",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the YAML configuration")

	open := func() (*env, error) { return openEnv(configPath) }
	rootCmd.AddCommand(newRegisterCmd(open), newTokenCmd(open))
	return rootCmd
}

func openEnv(configPath string) (*env, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenManager(cfg.Auth())
	if err != nil {
		return nil, err
	}
	repo, err := db.NewRepository(cfg.Database(), logger)
	if err != nil {
		return nil, err
	}

	var producer interface {
		Produce(events.Event)
		Close()
	} = events.NopProducer{}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := events.NewProducer(cfg.KafkaBrokers, cfg.Topic, logger)
		if err != nil {
			logger.Warn("Kafka unavailable, user events are dropped", zap.Error(err))
		} else {
			producer = p
		}
	}

	return &env{
		service: controller.NewAuthenticationService(repo, tokens, producer, logger),
		close: func() {
			producer.Close()
			_ = repo.Close()
			_ = logger.Sync()
		},
	}, nil
}

func newRegisterCmd(open func() (*env, error)) *cobra.Command {
	var dto struct {
		firstName, lastName, userName, password, email, phone string
		roles                                                 []string
	}

	cmd := &cobra.Command{
		Use:   "register",
		Args:  cobra.NoArgs,
		Short: "Register a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			defer e.close()

			err = e.service.RegisterUser(cmd.Context(), &models.UserForRegistrationDto{
				FirstName:   dto.firstName,
				LastName:    dto.lastName,
				UserName:    dto.userName,
				Password:    dto.password,
				Email:       dto.email,
				PhoneNumber: dto.phone,
				Roles:       dto.roles,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s\n", dto.userName)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&dto.firstName, "first-name", "", "first name")
	f.StringVar(&dto.lastName, "last-name", "", "last name")
	f.StringVarP(&dto.userName, "user", "u", "", "user name")
	f.StringVarP(&dto.password, "password", "p", "", "password")
	f.StringVar(&dto.email, "email", "", "email address")
	f.StringVar(&dto.phone, "phone", "", "phone number")
	f.StringSliceVar(&dto.roles, "roles", nil, "roles, e.g. Manager,Administrator")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newTokenCmd(open func() (*env, error)) *cobra.Command {
	var userName, password string

	cmd := &cobra.Command{
		Use:   "token",
		Args:  cobra.NoArgs,
		Short: "Log in and print a token pair",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			defer e.close()

			ctx := cmd.Context()
			user, err := e.service.ValidateUser(ctx, &models.UserForAuthenticationDto{UserName: userName, Password: password})
			if err != nil {
				return err
			}
			token, err := e.service.CreateToken(ctx, user, true)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(token)
		},
	}
	cmd.Flags().StringVarP(&userName, "user", "u", "", "user name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
