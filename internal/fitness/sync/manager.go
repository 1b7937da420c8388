// Package sync keeps local in-memory mirrors of the user's collections,
// fed by store subscriptions. Reads are served from the mirrors, writes go
// straight to the store and come back through the next snapshot
// (trust-next-snapshot reconciliation, no revert on a failed write).
package sync

import (
	"context"
	"fmt"
	stdsync "sync"

	"github.com/2beens/liftlog/internal/docstore"
	"github.com/2beens/liftlog/internal/fitness"

	log "github.com/sirupsen/logrus"
)

type Manager struct {
	store  docstore.Store
	userID string

	mu               stdsync.RWMutex
	muscleGroups     []fitness.MuscleGroup
	subcategories    []fitness.Subcategory
	exercises        []fitness.Exercise
	routines         []fitness.Routine
	personalRecords  []fitness.PersonalRecord
	bodyMeasurements []fitness.BodyMeasurement
	profile          fitness.Profile
	favorites        fitness.Favorites

	// days of the currently selected routine
	selectedRoutineID string
	routineDays       []fitness.RoutineDay
	unsubscribeDays   func()

	onRecordsChange      []func()
	onMeasurementsChange []func()

	unsubscribes []func()
	wg           stdsync.WaitGroup
	stopOnce     stdsync.Once
}

func NewManager(store docstore.Store, userID string) *Manager {
	return &Manager{
		store:     store,
		userID:    userID,
		favorites: fitness.Favorites{ExerciseIDs: []string{}},
	}
}

// Start subscribes to every user collection. Each subscription delivers its
// initial snapshot immediately, so mirrors fill shortly after return.
func (m *Manager) Start(ctx context.Context) error {
	collections := []struct {
		path  string
		apply func(docstore.Snapshot) error
	}{
		{docstore.UserCollection(m.userID, docstore.CollMuscleGroups), m.applyMuscleGroups},
		{docstore.UserCollection(m.userID, docstore.CollSubcategories), m.applySubcategories},
		{docstore.UserCollection(m.userID, docstore.CollExercises), m.applyExercises},
		{docstore.UserCollection(m.userID, docstore.CollRoutines), m.applyRoutines},
		{docstore.UserCollection(m.userID, docstore.CollPersonalRecords), m.applyPersonalRecords},
		{docstore.UserCollection(m.userID, docstore.CollBodyMeasurements), m.applyBodyMeasurements},
		{docstore.UserCollection(m.userID, docstore.CollProfile), m.applyProfile},
		{docstore.UserCollection(m.userID, docstore.CollAppState), m.applyAppState},
	}

	for _, coll := range collections {
		updates, unsubscribe, err := m.store.Subscribe(ctx, coll.path)
		if err != nil {
			m.Stop()
			return fmt.Errorf("subscribe to %s: %w", coll.path, err)
		}
		m.unsubscribes = append(m.unsubscribes, unsubscribe)

		m.wg.Add(1)
		go m.consume(coll.path, updates, coll.apply)
	}

	return nil
}

// Stop tears down every subscription and waits for the consumers to drain.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		m.DeselectRoutine()
		for _, unsubscribe := range m.unsubscribes {
			unsubscribe()
		}
		m.wg.Wait()
	})
}

func (m *Manager) consume(path string, updates <-chan docstore.Snapshot, apply func(docstore.Snapshot) error) {
	defer m.wg.Done()
	for snapshot := range updates {
		// a single bad snapshot must not tear down the subscription
		if err := apply(snapshot); err != nil {
			log.Errorf("sync manager, apply snapshot of %s: %s", path, err)
		}
	}
}

// SelectRoutine subscribes to the days of one routine, replacing any previous
// selection. Follows the active routine, see routines.Service.Activate.
func (m *Manager) SelectRoutine(ctx context.Context, routineID string) error {
	m.DeselectRoutine()

	path := docstore.RoutineDaysPath(m.userID, routineID)
	updates, unsubscribe, err := m.store.Subscribe(ctx, path)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", path, err)
	}

	m.mu.Lock()
	m.selectedRoutineID = routineID
	m.routineDays = nil
	m.unsubscribeDays = unsubscribe
	m.mu.Unlock()

	m.wg.Add(1)
	go m.consume(path, updates, m.applyRoutineDays)

	return nil
}

func (m *Manager) DeselectRoutine() {
	m.mu.Lock()
	unsubscribe := m.unsubscribeDays
	m.unsubscribeDays = nil
	m.selectedRoutineID = ""
	m.routineDays = nil
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// OnPersonalRecordsChange registers a callback invoked after every applied
// personal records snapshot. Used to invalidate derived caches.
func (m *Manager) OnPersonalRecordsChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRecordsChange = append(m.onRecordsChange, fn)
}

// OnBodyMeasurementsChange registers a callback invoked after every applied
// body measurements snapshot.
func (m *Manager) OnBodyMeasurementsChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onMeasurementsChange = append(m.onMeasurementsChange, fn)
}

func (m *Manager) applyMuscleGroups(snapshot docstore.Snapshot) error {
	muscleGroups, err := fitness.MuscleGroupsFromSnapshot(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muscleGroups = muscleGroups
	return nil
}

func (m *Manager) applySubcategories(snapshot docstore.Snapshot) error {
	subcategories, err := fitness.SubcategoriesFromSnapshot(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subcategories = subcategories
	return nil
}

func (m *Manager) applyExercises(snapshot docstore.Snapshot) error {
	exercises, err := fitness.ExercisesFromSnapshot(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exercises = exercises
	return nil
}

func (m *Manager) applyRoutines(snapshot docstore.Snapshot) error {
	routines, err := fitness.RoutinesFromSnapshot(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routines = routines
	return nil
}

func (m *Manager) applyPersonalRecords(snapshot docstore.Snapshot) error {
	personalRecords, err := fitness.PersonalRecordsFromSnapshot(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.personalRecords = personalRecords
	callbacks := make([]func(), len(m.onRecordsChange))
	copy(callbacks, m.onRecordsChange)
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
	return nil
}

func (m *Manager) applyBodyMeasurements(snapshot docstore.Snapshot) error {
	bodyMeasurements, err := fitness.BodyMeasurementsFromSnapshot(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.bodyMeasurements = bodyMeasurements
	callbacks := make([]func(), len(m.onMeasurementsChange))
	copy(callbacks, m.onMeasurementsChange)
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
	return nil
}

func (m *Manager) applyProfile(snapshot docstore.Snapshot) error {
	profile, err := fitness.ProfileFromSnapshot(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = profile
	return nil
}

func (m *Manager) applyAppState(snapshot docstore.Snapshot) error {
	favorites, err := fitness.FavoritesFromSnapshot(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.favorites = favorites
	return nil
}

func (m *Manager) applyRoutineDays(snapshot docstore.Snapshot) error {
	days, err := fitness.RoutineDaysFromSnapshot(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routineDays = days
	return nil
}

func (m *Manager) MuscleGroups() []fitness.MuscleGroup {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]fitness.MuscleGroup{}, m.muscleGroups...)
}

func (m *Manager) Subcategories() []fitness.Subcategory {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]fitness.Subcategory{}, m.subcategories...)
}

func (m *Manager) Exercises() []fitness.Exercise {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]fitness.Exercise{}, m.exercises...)
}

func (m *Manager) Routines() []fitness.Routine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]fitness.Routine{}, m.routines...)
}

func (m *Manager) PersonalRecords() []fitness.PersonalRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]fitness.PersonalRecord{}, m.personalRecords...)
}

func (m *Manager) BodyMeasurements() []fitness.BodyMeasurement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]fitness.BodyMeasurement{}, m.bodyMeasurements...)
}

func (m *Manager) Profile() fitness.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile
}

func (m *Manager) Favorites() fitness.Favorites {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fitness.Favorites{
		ExerciseIDs: append([]string{}, m.favorites.ExerciseIDs...),
	}
}

func (m *Manager) SelectedRoutineID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selectedRoutineID
}

// RoutineDays returns the mirrored days of the selected routine, empty when
// no routine is selected.
func (m *Manager) RoutineDays() []fitness.RoutineDay {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]fitness.RoutineDay{}, m.routineDays...)
}
