package migrator

import (
	"context"
	"fmt"
	"time"

	"github.com/dbsmedya/orgmigrate/internal/config"
	"github.com/dbsmedya/orgmigrate/internal/logger"
	"github.com/dbsmedya/orgmigrate/internal/types"
)

// Executor inserts a migration plan into target orgs in planned order,
// remapping source identifiers to newly-assigned target identifiers as the
// run progresses.
type Executor struct {
	batchSize    int
	sleepSeconds float64
	runID        string
	log          *logger.Logger
}

// NewExecutor creates an executor. batchSize is clamped to the bulk API's
// per-call record limit.
func NewExecutor(batchSize int, runID string, log *logger.Logger) *Executor {
	if log == nil {
		log = logger.NewDefault()
	}
	if batchSize <= 0 || batchSize > config.MaxBatchSize {
		batchSize = config.MaxBatchSize
	}
	return &Executor{
		batchSize: batchSize,
		runID:     runID,
		log:       log,
	}
}

// SetSleep configures an optional pause between insert batches.
func (e *Executor) SetSleep(seconds float64) {
	e.sleepSeconds = seconds
}

// ExecuteAll runs the plan against every target independently. Each target
// gets its own fresh identifier mapping and counters; one target's failure
// never blocks or affects another target's run. A target's batch-level
// failure is recorded on its result.
func (e *Executor) ExecuteAll(ctx context.Context, plan *types.MigrationPlan, targets []Target) []types.MigrationResult {
	results := make([]types.MigrationResult, 0, len(targets))
	for _, target := range targets {
		result, err := e.Execute(ctx, plan, target)
		if err != nil {
			result.Error = err.Error()
			e.log.WithTarget(target.Name()).Errorf("Migration run aborted: %v", err)
		}
		results = append(results, result)
	}
	return results
}

// Execute runs the plan against a single target connection. Object types are
// processed strictly in plan order. Before each batch is sent, any field
// value matching a source identifier already present in the running mapping
// is replaced with its target identifier, and the reserved internal key is
// stripped.
//
// Per-record failures are recovered and reported in the result. A
// batch-level transport failure aborts the remaining batches for that
// object type and the rest of this target's run; completed object types'
// results are still returned.
func (e *Executor) Execute(ctx context.Context, plan *types.MigrationPlan, target Target) (types.MigrationResult, error) {
	log := e.log.WithTarget(target.Name())

	idMap := make(types.IdentifierMapping)
	result := types.MigrationResult{
		Target: target.Name(),
		RunID:  e.runID,
		IDMap:  idMap,
	}

	log.Infof("Executing migration plan: %d object types, %d records",
		plan.Records.Len(), plan.Stats.TotalRecords)

	for el := plan.Records.Front(); el != nil; el = el.Next() {
		objectType, records := el.Key, el.Value
		if len(records) == 0 {
			continue
		}

		objResult, err := e.executeObjectType(ctx, log, target, objectType, records, idMap)
		result.Objects = append(result.Objects, objResult)
		result.TotalInserted += objResult.Inserted
		result.TotalFailed += objResult.Failed

		if err != nil {
			return result, fmt.Errorf("insert into %s aborted: %w", objectType, err)
		}
	}

	log.Infof("Migration run complete: %d inserted, %d failed",
		result.TotalInserted, result.TotalFailed)

	return result, nil
}

// executeObjectType inserts one object type's records in fixed-size batches,
// preserving record order within and across batches.
func (e *Executor) executeObjectType(ctx context.Context, log *logger.Logger, target Target, objectType string, records []types.Record, idMap types.IdentifierMapping) (types.ObjectResult, error) {
	objResult := types.ObjectResult{ObjectType: objectType}
	objLog := log.WithObject(objectType)

	batchNum := 0
	for start := 0; start < len(records); start += e.batchSize {
		if err := ctx.Err(); err != nil {
			objResult.Aborted = true
			return objResult, err
		}

		end := start + e.batchSize
		if end > len(records) {
			end = len(records)
		}
		batchNum++

		batch, sourceIDs := e.prepareBatch(records[start:end], idMap)

		objLog.WithBatch(batchNum).Debugf("Inserting batch of %d %s records", len(batch), objectType)
		saveResults, err := target.Insert(ctx, objectType, batch)
		if err != nil {
			objResult.Aborted = true
			return objResult, err
		}

		for i, sr := range saveResults {
			if sr.Success {
				objResult.Inserted++
				if sourceIDs[i] != "" {
					idMap[sourceIDs[i]] = sr.ID
				}
				continue
			}
			objResult.Failed++
			objResult.Errors = append(objResult.Errors,
				fmt.Sprintf("Record %d: %s", start+i+1, sr.ErrorMessage()))
		}

		if e.sleepSeconds > 0 && end < len(records) {
			select {
			case <-ctx.Done():
				objResult.Aborted = true
				return objResult, ctx.Err()
			case <-time.After(time.Duration(e.sleepSeconds * float64(time.Second))):
			}
		}
	}

	objLog.Infof("%s complete: %d inserted, %d failed", objectType, objResult.Inserted, objResult.Failed)
	return objResult, nil
}

// prepareBatch builds the transmit form of a batch: relationship values
// pointing at records inserted earlier in this run are substituted with
// their new target identifiers, and the reserved source-id key is stripped.
// Returns the prepared records and the parallel list of source identifiers.
func (e *Executor) prepareBatch(records []types.Record, idMap types.IdentifierMapping) ([]types.Record, []string) {
	batch := make([]types.Record, len(records))
	sourceIDs := make([]string, len(records))

	for i, record := range records {
		prepared := make(types.Record, len(record))
		for name, value := range record {
			if name == types.SourceIDKey {
				sourceIDs[i], _ = value.(string)
				continue
			}
			if s, ok := value.(string); ok {
				if mapped, ok := idMap[s]; ok {
					prepared[name] = mapped
					continue
				}
			}
			prepared[name] = value
		}
		batch[i] = prepared
	}

	return batch, sourceIDs
}
