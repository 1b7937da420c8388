package fitness

import (
	"encoding/json"
	"fmt"

	"github.com/2beens/liftlog/internal/docstore"
)

// Fields converts an entity into the raw field map stored in a document. A
// top-level id is stripped, it lives on the document itself.
func Fields(entity any) (map[string]any, error) {
	entityJSON, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("marshal entity: %w", err)
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(entityJSON, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal entity fields: %w", err)
	}
	delete(fields, "id")
	return fields, nil
}

func decodeDocument[T any](doc docstore.Document, out *T) error {
	fieldsJSON, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields of %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(fieldsJSON, out); err != nil {
		return fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	return nil
}

func decodeSnapshot[T any](snapshot docstore.Snapshot, setID func(*T, string)) ([]T, error) {
	decoded := make([]T, 0, len(snapshot))
	for _, doc := range snapshot {
		var entity T
		if err := decodeDocument(doc, &entity); err != nil {
			return nil, err
		}
		setID(&entity, doc.ID)
		decoded = append(decoded, entity)
	}
	return decoded, nil
}

func MuscleGroupsFromSnapshot(snapshot docstore.Snapshot) ([]MuscleGroup, error) {
	return decodeSnapshot(snapshot, func(mg *MuscleGroup, id string) { mg.ID = id })
}

func SubcategoriesFromSnapshot(snapshot docstore.Snapshot) ([]Subcategory, error) {
	return decodeSnapshot(snapshot, func(sc *Subcategory, id string) { sc.ID = id })
}

func ExercisesFromSnapshot(snapshot docstore.Snapshot) ([]Exercise, error) {
	return decodeSnapshot(snapshot, func(ex *Exercise, id string) { ex.ID = id })
}

func RoutinesFromSnapshot(snapshot docstore.Snapshot) ([]Routine, error) {
	return decodeSnapshot(snapshot, func(r *Routine, id string) { r.ID = id })
}

func RoutineDaysFromSnapshot(snapshot docstore.Snapshot) ([]RoutineDay, error) {
	return decodeSnapshot(snapshot, func(day *RoutineDay, id string) { day.ID = id })
}

func PersonalRecordsFromSnapshot(snapshot docstore.Snapshot) ([]PersonalRecord, error) {
	return decodeSnapshot(snapshot, func(pr *PersonalRecord, id string) { pr.ID = id })
}

func BodyMeasurementsFromSnapshot(snapshot docstore.Snapshot) ([]BodyMeasurement, error) {
	return decodeSnapshot(snapshot, func(bm *BodyMeasurement, id string) { bm.ID = id })
}

// ProfileFromSnapshot looks for the profile/main singleton, a missing
// document yields an empty profile.
func ProfileFromSnapshot(snapshot docstore.Snapshot) (Profile, error) {
	for _, doc := range snapshot {
		if doc.ID != docstore.DocProfileMain {
			continue
		}
		var profile Profile
		if err := decodeDocument(doc, &profile); err != nil {
			return Profile{}, err
		}
		return profile, nil
	}
	return Profile{}, nil
}

// FavoritesFromSnapshot looks for the appState/prFavorites singleton, a
// missing document yields empty favorites.
func FavoritesFromSnapshot(snapshot docstore.Snapshot) (Favorites, error) {
	for _, doc := range snapshot {
		if doc.ID != docstore.DocPRFavorites {
			continue
		}
		var favorites Favorites
		if err := decodeDocument(doc, &favorites); err != nil {
			return Favorites{}, err
		}
		if favorites.ExerciseIDs == nil {
			favorites.ExerciseIDs = []string{}
		}
		return favorites, nil
	}
	return Favorites{ExerciseIDs: []string{}}, nil
}
