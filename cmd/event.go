package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/frahmantamala/hiring-gateway/internal/core/events"
	"github.com/frahmantamala/hiring-gateway/internal/notification"
	notificationPostgrest "github.com/frahmantamala/hiring-gateway/internal/notification/postgrest"
	"github.com/frahmantamala/hiring-gateway/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Replay application events through the same subscribers the server wires up.`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [event-type]",
	Short:     "Publish an application event",
	Long:      `Publish an application event synchronously, e.g. to resend a candidate notification.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{events.EventTypeApplicationSubmitted, events.EventTypeApplicationStatusChanged},
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishEvent(cmd.Context(), args[0])
	},
}

var (
	eventApplicationID string
	eventJobID         string
	eventCandidateID   string
	eventStatus        string
)

func publishEvent(ctx context.Context, eventType string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	config, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger.Init(config.Environment, config.Logging.Level, config.Logging.Format)
	log := logger.LoggerWrapper()

	backend := newBackendClient(config, log)
	notificationService := notification.NewService(notificationPostgrest.NewNotificationRepository(backend), log)

	eventBus := events.NewEventBus(log)
	eventBus.Subscribe(events.EventTypeApplicationSubmitted, notificationService.OnApplicationSubmitted)
	eventBus.Subscribe(events.EventTypeApplicationStatusChanged, notificationService.OnApplicationStatusChanged)

	var evt events.BaseEvent
	switch eventType {
	case events.EventTypeApplicationSubmitted:
		evt = events.NewApplicationSubmittedEvent(eventApplicationID, eventJobID, eventCandidateID)
	case events.EventTypeApplicationStatusChanged:
		if eventStatus == "" {
			return fmt.Errorf("--status is required for %s", eventType)
		}
		evt = events.NewApplicationStatusChangedEvent(eventApplicationID, eventJobID, eventCandidateID, eventStatus)
	default:
		return fmt.Errorf("unknown event type %q", eventType)
	}

	log.Info("publishing event", "event_type", eventType, "event_id", evt.ID)
	if err := eventBus.PublishSync(ctx, evt); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "event delivered:", evt.ID)
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventApplicationID, "application", "", "Application id")
	publishEventCmd.Flags().StringVar(&eventJobID, "job", "", "Job id")
	publishEventCmd.Flags().StringVar(&eventCandidateID, "candidate", "", "Candidate user id")
	publishEventCmd.Flags().StringVar(&eventStatus, "status", "", "New application status")
	_ = publishEventCmd.MarkFlagRequired("candidate")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
