package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/engagement"
	"github.com/Zachkp/portfolio/internal/server"
	"github.com/Zachkp/portfolio/internal/store"
)

// NewServeCommand creates the serve command.
func NewServeCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the portfolio web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			log := newLogger(cfg.Mode)

			profile, err := content.Load(cfg.ContentPath)
			if err != nil {
				return err
			}
			if err := profile.CheckSections(cfg.Scroll.Sections); err != nil {
				return fmt.Errorf("scroll.sections: %w", err)
			}

			st, err := store.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer st.Close()

			sessions, err := engagement.NewRegistry(cfg.TrackerOptions(profile.Sections), cfg.Scroll.SessionTTL, st, log)
			if err != nil {
				return err
			}

			if !cfg.MailConfigured() {
				log.Warn("SMTP credentials not configured, contact form will report errors")
			}
			mailer := contact.NewSMTPMailer(contact.SMTPConfig{
				Host: cfg.SMTP.Host,
				Port: cfg.SMTP.Port,
				User: cfg.SMTP.User,
				Pass: cfg.SMTP.Pass,
				To:   cfg.SMTP.To,
			}, nil, log)

			srv, err := server.New(server.Deps{
				Config:   cfg,
				Profile:  profile,
				Store:    st,
				Mailer:   mailer,
				Sessions: sessions,
				Log:      log,
			})
			if err != nil {
				return fmt.Errorf("building server: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
}
