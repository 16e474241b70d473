package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bodega-ag/inventory-gateway/internal/core/events"
	movementPostgres "github.com/bodega-ag/inventory-gateway/internal/movement/postgres"
	"github.com/bodega-ag/inventory-gateway/internal/stub"
	"github.com/bodega-ag/inventory-gateway/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish record events to the development backend's audit history`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [INSERT|UPDATE|ACTIVAR|DESACTIVAR|BAJA]",
	Short:     "Publish a record event",
	Long:      `Publish a record change event; the audit handler stores it as a movement`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"INSERT", "UPDATE", "ACTIVAR", "DESACTIVAR", "BAJA"},
	Run: func(cmd *cobra.Command, args []string) {
		if err := publishRecordEvent(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

var (
	eventTable   string
	eventRecord  int64
	eventActor   int64
	eventDetails string
)

func publishRecordEvent(action string) error {
	eventType := "record." + strings.ToUpper(action)
	known := false
	for _, t := range events.RecordEventTypes {
		known = known || t == eventType
	}
	if !known {
		return fmt.Errorf("unknown action %q", action)
	}

	cfg := mustLoadConfig()
	log := logger.LoggerWrapper()

	db, err := stub.OpenDB(cfg.Stub, false)
	if err != nil {
		return err
	}

	eventBus := events.NewEventBus(log)
	stub.NewAuditRecorder(movementPostgres.NewMovementRepository(db), log).RegisterEventHandlers(eventBus)

	ev := events.NewRecordChangedEvent(eventType, eventTable, eventRecord, eventActor, eventDetails)
	log.Info("publishing record event", "event_type", eventType, "event_id", ev.EventID())

	if err := eventBus.PublishSync(context.Background(), ev); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	log.Info("record event stored")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventTable, "table", "productos", "affected table")
	publishEventCmd.Flags().Int64Var(&eventRecord, "record", 0, "affected record id")
	publishEventCmd.Flags().Int64Var(&eventActor, "actor", 0, "id of the user who made the change")
	publishEventCmd.Flags().StringVar(&eventDetails, "details", "", "free-text details")
	_ = publishEventCmd.MarkFlagRequired("actor")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
