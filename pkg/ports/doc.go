/*
Package ports defines the driven ports (interfaces) for the chime scheduler.

These interfaces decouple the scheduler from external implementations, allowing
it to work with various history backends and lock providers.

# Key Interfaces

  - RunStore: Responsible for persisting and querying task run history.
  - DistributedLocker: Provides distributed locking so a task runs on a single
    instance at a time.
*/
package ports
