package commands

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio-site-backend/api"
	"github.com/rpupo63/portfolio-site-backend/auth"
	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/services"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Info().Msg("Initializing app...")

		db, err := openDatabase()
		if err != nil {
			return err
		}
		currentDB := database.New(db)
		defer currentDB.Close()

		media, err := services.NewMediaStoreFromConfig(cmd.Context(), globalConfig)
		if err != nil {
			return fmt.Errorf("error initializing media store: %w", err)
		}

		tokens, err := auth.NewTokens(
			config.GetString(globalConfig, "JWT_SECRET", ""),
			config.GetString(globalConfig, "JWT_ISSUER", ""),
		)
		if err != nil {
			return fmt.Errorf("error initializing session tokens: %w", err)
		}

		server, err := api.NewServer(api.Dependencies{
			Projects: currentDB.ProjectRepo(),
			Skills:   currentDB.SkillRepo(),
			Users:    currentDB.UserRepo(),
			Media:    media,
			Tokens:   tokens,
			Database: currentDB,
		}, globalConfig)
		if err != nil {
			return fmt.Errorf("error initializing server: %w", err)
		}

		errChannel := make(chan error, 2)

		go server.Start(errChannel)

		// Listen for interrupt signals to gracefully shutdown the server
		go listenToInterrupt(errChannel)

		fatalErr := <-errChannel
		log.Info().Msgf("Closing server: %v", fatalErr)

		server.ShutdownGracefully(shutdownTimeout)
		return exitError(fatalErr)
	},
}

// interruptError reports the signal that stopped the server.
type interruptError struct {
	signal os.Signal
}

func (e interruptError) Error() string { return e.signal.String() }

// exitError keeps startup failures such as a port already in use as the
// command's error. A signal or a closed server is a clean exit.
func exitError(err error) error {
	var interrupt interruptError
	if err == nil || errors.As(err, &interrupt) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("server stopped: %w", err)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- interruptError{signal: <-c}
}
