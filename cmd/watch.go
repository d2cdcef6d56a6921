package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/letteryzzm/jike-skill/internal"
)

// Watch polls for unread notifications on a schedule until interrupted.
func Watch(accessToken, refreshToken string) error {
	client, _, err := bootstrap(accessToken, refreshToken)
	if err != nil {
		return err
	}

	c, err := internal.StartNotificationWatch(client)
	if err != nil {
		return fmt.Errorf("failed to start notification watch: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Print("stopping notification watch")
	<-c.Stop().Done()
	return nil
}
