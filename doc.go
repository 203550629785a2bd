/*
Package chime is an in-process task scheduler with declarative CI-style pipelines.

It schedules functions on triggers (intervals, wall-clock times, cron
expressions, lifecycle phases) and ships a pipeline runner that executes
YAML workflow definitions in response to repository-style events.

# Concept

An App owns tasks. Each task pairs a function with a trigger; the trigger
decides when the function fires. Groups let you modularize registration the
way routers do in web frameworks. Serving runs three phases: startup tasks,
then all regular tasks concurrently, then shutdown tasks.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"
		"time"

		"github.com/chime-sh/chime"
		"github.com/chime-sh/chime/trigger"
	)

	func main() {
		app := chime.New()

		_, err := app.Task("heartbeat", trigger.NewEvery(time.Second), func(ctx context.Context) error {
			fmt.Println("tick")
			return nil
		})
		if err != nil {
			log.Fatal(err)
		}

		if err := app.Serve(context.Background()); err != nil {
			log.Fatal(err)
		}
	}

Run history can be persisted through a RunStore adapter (see pkg/adapters),
and the api package exposes task metadata and manual runs for HTTP frontends.
*/
package chime
