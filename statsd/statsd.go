// Package statsd is a helper package that wraps some common statsd methods.
// It hides the datadog dependency so if we decide to migrate away from datadog in the future, we only need to
// edit this single file.
package statsd

import (
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

var client ddstatsd.ClientInterface = &ddstatsd.NoOpClient{}

func Client() ddstatsd.ClientInterface {
	return client
}

// EmitStepStat records the duration of one stage of a frame step.
func EmitStepStat(start time.Time, stage string) {
	duration := time.Since(start)
	err := Client().Timing("step", duration, []string{stage}, 1)
	if err != nil {
		log.Logger.Warn().Msgf("failed to emit step stat: %v", err)
	}
}

// EmitEntityCount records the number of live entities after a frame step.
func EmitEntityCount(count int) {
	err := Client().Gauge("entities", float64(count), nil, 1)
	if err != nil {
		log.Logger.Warn().Msgf("failed to emit entity count: %v", err)
	}
}

func Init(address string, tags []string) error {
	if address == "" {
		return eris.New("address must not be empty")
	}
	opts := []ddstatsd.Option{
		// The statsd namespace is the prefix of all metrics
		ddstatsd.WithNamespace("kon"),
	}
	if len(tags) > 0 {
		opts = append(opts, ddstatsd.WithTags(tags))
	}

	newClient, err := ddstatsd.New(address, opts...)
	if err != nil {
		return err
	}
	// Success! replace the global client
	client = newClient
	return nil
}
