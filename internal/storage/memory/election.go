package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"electoral/internal/election/models"
	id "electoral/pkg/domain"
	"electoral/pkg/platform/sentinel"
)

type electionTable struct{ st *state }

func (t electionTable) FindByID(_ context.Context, electionID id.ElectionID) (*models.Election, error) {
	e, ok := t.st.elections[electionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &e, nil
}

func (t electionTable) FindWardInElection(_ context.Context, electionID id.ElectionID, wardID id.WardID) (*models.Ward, error) {
	w, ok := t.st.wards[wardID]
	if !ok || w.ElectionID != electionID {
		return nil, sentinel.ErrNotFound
	}
	return &w, nil
}

func (t electionTable) FindElectionBooth(_ context.Context, electionID id.ElectionID, boothID id.ElectionBoothID) (*models.ElectionBooth, error) {
	eb, ok := t.st.electionBooths[boothID]
	if !ok || eb.ElectionID != electionID {
		return nil, sentinel.ErrNotFound
	}
	return &eb, nil
}

func (t electionTable) Create(_ context.Context, e *models.Election) (id.ElectionID, error) {
	t.st.seq.election++
	row := *e
	row.ID = id.ElectionID(t.st.seq.election)
	row.Type = models.ClassifyStoredType(string(row.Type))
	t.st.elections[row.ID] = row
	return row.ID, nil
}

func (t electionTable) List(_ context.Context) ([]models.Election, error) {
	out := make([]models.Election, 0, len(t.st.elections))
	for _, e := range t.st.elections {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b models.Election) int { return cmp.Compare(b.ID, a.ID) })
	return out, nil
}

func (t electionTable) UpdateStatus(_ context.Context, electionID id.ElectionID, status models.Status) error {
	e, ok := t.st.elections[electionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	e.Status = status
	t.st.elections[electionID] = e
	return nil
}

func (t electionTable) CreateWard(_ context.Context, w *models.Ward) (id.WardID, error) {
	if _, ok := t.st.elections[w.ElectionID]; !ok {
		return 0, sentinel.ErrMissingReference
	}
	for _, existing := range t.st.wards {
		if existing.ElectionID == w.ElectionID && existing.WardNo == w.WardNo {
			return 0, sentinel.ErrConflict
		}
	}
	t.st.seq.ward++
	row := *w
	row.ID = id.WardID(t.st.seq.ward)
	t.st.wards[row.ID] = row
	return row.ID, nil
}

func (t electionTable) ListWards(_ context.Context, electionID id.ElectionID) ([]models.Ward, error) {
	out := []models.Ward{}
	for _, w := range t.st.wards {
		if w.ElectionID == electionID {
			out = append(out, w)
		}
	}
	slices.SortFunc(out, func(a, b models.Ward) int { return cmp.Compare(a.WardNo, b.WardNo) })
	return out, nil
}

func (t electionTable) DeleteWard(_ context.Context, electionID id.ElectionID, wardID id.WardID) error {
	w, ok := t.st.wards[wardID]
	if !ok || w.ElectionID != electionID {
		return sentinel.ErrNotFound
	}
	for _, eb := range t.st.electionBooths {
		if eb.WardID != nil && *eb.WardID == wardID {
			return sentinel.ErrConflict
		}
	}
	for _, a := range t.st.assignments {
		if a.WardID != nil && *a.WardID == wardID {
			return sentinel.ErrConflict
		}
	}
	for _, c := range t.st.candidates {
		if c.WardID != nil && *c.WardID == wardID {
			return sentinel.ErrConflict
		}
	}
	delete(t.st.wards, wardID)
	return nil
}

func (t electionTable) allocated(electionID id.ElectionID) map[id.BoothID]bool {
	out := make(map[id.BoothID]bool)
	for _, eb := range t.st.electionBooths {
		if eb.ElectionID == electionID && eb.BoothID != nil {
			out[*eb.BoothID] = true
		}
	}
	return out
}

func (t electionTable) AllocateBooths(_ context.Context, electionID id.ElectionID, wardID *id.WardID, boothIDs []id.BoothID) (int, error) {
	if _, ok := t.st.elections[electionID]; !ok {
		return 0, sentinel.ErrMissingReference
	}
	taken := t.allocated(electionID)
	n := 0
	for _, boothID := range boothIDs {
		b, ok := t.st.booths[boothID]
		if !ok {
			return 0, sentinel.ErrMissingReference
		}
		if taken[boothID] {
			continue
		}
		t.st.seq.electionBooth++
		master := boothID
		row := models.ElectionBooth{
			ID:         id.ElectionBoothID(t.st.seq.electionBooth),
			ElectionID: electionID,
			BoothID:    &master,
			WardID:     wardID,
			BoothName:  b.Name,
			Latitude:   b.Latitude,
			Longitude:  b.Longitude,
			Radius:     models.DefaultBoothRadius,
		}
		t.st.electionBooths[row.ID] = row
		taken[boothID] = true
		n++
	}
	return n, nil
}

func (t electionTable) CreateElectionBooth(_ context.Context, eb *models.ElectionBooth) (id.ElectionBoothID, error) {
	if _, ok := t.st.elections[eb.ElectionID]; !ok {
		return 0, sentinel.ErrMissingReference
	}
	if eb.WardID != nil {
		if _, ok := t.st.wards[*eb.WardID]; !ok {
			return 0, sentinel.ErrMissingReference
		}
	}
	if eb.BoothID != nil && t.allocated(eb.ElectionID)[*eb.BoothID] {
		return 0, sentinel.ErrConflict
	}
	t.st.seq.electionBooth++
	row := *eb
	row.ID = id.ElectionBoothID(t.st.seq.electionBooth)
	t.st.electionBooths[row.ID] = row
	return row.ID, nil
}

func (t electionTable) ListElectionBooths(_ context.Context, electionID id.ElectionID, wardID *id.WardID) ([]models.ElectionBooth, error) {
	out := []models.ElectionBooth{}
	for _, eb := range t.st.electionBooths {
		if eb.ElectionID != electionID {
			continue
		}
		if wardID != nil && (eb.WardID == nil || *eb.WardID != *wardID) {
			continue
		}
		out = append(out, eb)
	}
	slices.SortFunc(out, func(a, b models.ElectionBooth) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (t electionTable) RemoveElectionBooth(_ context.Context, electionID id.ElectionID, boothID id.ElectionBoothID) error {
	eb, ok := t.st.electionBooths[boothID]
	if !ok || eb.ElectionID != electionID {
		return sentinel.ErrNotFound
	}
	for _, a := range t.st.assignments {
		if a.BoothID == boothID {
			return sentinel.ErrConflict
		}
	}
	delete(t.st.electionBooths, boothID)
	return nil
}

func (t electionTable) AvailableBooths(_ context.Context, scope models.Scope, filter models.BoothFilter) ([]models.Booth, error) {
	taken := t.allocated(scope.ID)
	out := []models.Booth{}
	for _, b := range t.st.booths {
		if taken[b.ID] || !strings.EqualFold(b.State, scope.State) || !strings.EqualFold(b.District, scope.District) {
			continue
		}
		if filter.ACNameNo != "" && b.ACNameNo != filter.ACNameNo {
			continue
		}
		if filter.WardID != nil && (b.WardID == nil || *b.WardID != *filter.WardID) {
			continue
		}
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b models.Booth) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (t electionTable) AssemblyConstituencies(ctx context.Context, scope models.Scope) ([]string, error) {
	booths, err := t.AvailableBooths(ctx, scope, models.BoothFilter{})
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, b := range booths {
		if b.ACNameNo != "" && !slices.Contains(out, b.ACNameNo) {
			out = append(out, b.ACNameNo)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (t electionTable) BoothHierarchy(_ context.Context) ([]models.HierarchyRow, error) {
	counts := make(map[models.HierarchyRow]int)
	for _, b := range t.st.booths {
		counts[models.HierarchyRow{State: b.State, District: b.District, ACNameNo: b.ACNameNo, PartNameNo: b.PartNameNo}]++
	}
	out := make([]models.HierarchyRow, 0, len(counts))
	for row, n := range counts {
		row.Booths = n
		out = append(out, row)
	}
	slices.SortFunc(out, func(a, b models.HierarchyRow) int {
		return cmp.Or(
			cmp.Compare(a.State, b.State),
			cmp.Compare(a.District, b.District),
			cmp.Compare(a.ACNameNo, b.ACNameNo),
			cmp.Compare(a.PartNameNo, b.PartNameNo),
		)
	})
	return out, nil
}

func (t electionTable) InsertBooths(_ context.Context, booths []models.Booth) (int, error) {
	for _, b := range booths {
		t.st.seq.booth++
		row := b
		row.ID = id.BoothID(t.st.seq.booth)
		t.st.booths[row.ID] = row
	}
	return len(booths), nil
}

// Elections is the election store over committed state. Writes run as
// single-statement transactions.
type Elections struct{ db *DB }

func (db *DB) Elections() *Elections { return &Elections{db: db} }

func (e *Elections) FindByID(ctx context.Context, electionID id.ElectionID) (*models.Election, error) {
	return read(e.db, func(st *state) (*models.Election, error) {
		return electionTable{st}.FindByID(ctx, electionID)
	})
}

func (e *Elections) FindWardInElection(ctx context.Context, electionID id.ElectionID, wardID id.WardID) (*models.Ward, error) {
	return read(e.db, func(st *state) (*models.Ward, error) {
		return electionTable{st}.FindWardInElection(ctx, electionID, wardID)
	})
}

func (e *Elections) FindElectionBooth(ctx context.Context, electionID id.ElectionID, boothID id.ElectionBoothID) (*models.ElectionBooth, error) {
	return read(e.db, func(st *state) (*models.ElectionBooth, error) {
		return electionTable{st}.FindElectionBooth(ctx, electionID, boothID)
	})
}

func (e *Elections) Create(ctx context.Context, election *models.Election) (id.ElectionID, error) {
	return write(ctx, e.db, func(st *state) (id.ElectionID, error) {
		return electionTable{st}.Create(ctx, election)
	})
}

func (e *Elections) List(ctx context.Context) ([]models.Election, error) {
	return read(e.db, func(st *state) ([]models.Election, error) {
		return electionTable{st}.List(ctx)
	})
}

func (e *Elections) UpdateStatus(ctx context.Context, electionID id.ElectionID, status models.Status) error {
	_, err := write(ctx, e.db, func(st *state) (struct{}, error) {
		return struct{}{}, electionTable{st}.UpdateStatus(ctx, electionID, status)
	})
	return err
}

func (e *Elections) CreateWard(ctx context.Context, w *models.Ward) (id.WardID, error) {
	return write(ctx, e.db, func(st *state) (id.WardID, error) {
		return electionTable{st}.CreateWard(ctx, w)
	})
}

func (e *Elections) ListWards(ctx context.Context, electionID id.ElectionID) ([]models.Ward, error) {
	return read(e.db, func(st *state) ([]models.Ward, error) {
		return electionTable{st}.ListWards(ctx, electionID)
	})
}

func (e *Elections) DeleteWard(ctx context.Context, electionID id.ElectionID, wardID id.WardID) error {
	_, err := write(ctx, e.db, func(st *state) (struct{}, error) {
		return struct{}{}, electionTable{st}.DeleteWard(ctx, electionID, wardID)
	})
	return err
}

func (e *Elections) AllocateBooths(ctx context.Context, electionID id.ElectionID, wardID *id.WardID, boothIDs []id.BoothID) (int, error) {
	return write(ctx, e.db, func(st *state) (int, error) {
		return electionTable{st}.AllocateBooths(ctx, electionID, wardID, boothIDs)
	})
}

func (e *Elections) CreateElectionBooth(ctx context.Context, eb *models.ElectionBooth) (id.ElectionBoothID, error) {
	return write(ctx, e.db, func(st *state) (id.ElectionBoothID, error) {
		return electionTable{st}.CreateElectionBooth(ctx, eb)
	})
}

func (e *Elections) ListElectionBooths(ctx context.Context, electionID id.ElectionID, wardID *id.WardID) ([]models.ElectionBooth, error) {
	return read(e.db, func(st *state) ([]models.ElectionBooth, error) {
		return electionTable{st}.ListElectionBooths(ctx, electionID, wardID)
	})
}

func (e *Elections) RemoveElectionBooth(ctx context.Context, electionID id.ElectionID, boothID id.ElectionBoothID) error {
	_, err := write(ctx, e.db, func(st *state) (struct{}, error) {
		return struct{}{}, electionTable{st}.RemoveElectionBooth(ctx, electionID, boothID)
	})
	return err
}

func (e *Elections) AvailableBooths(ctx context.Context, scope models.Scope, filter models.BoothFilter) ([]models.Booth, error) {
	return read(e.db, func(st *state) ([]models.Booth, error) {
		return electionTable{st}.AvailableBooths(ctx, scope, filter)
	})
}

func (e *Elections) AssemblyConstituencies(ctx context.Context, scope models.Scope) ([]string, error) {
	return read(e.db, func(st *state) ([]string, error) {
		return electionTable{st}.AssemblyConstituencies(ctx, scope)
	})
}

func (e *Elections) BoothHierarchy(ctx context.Context) ([]models.HierarchyRow, error) {
	return read(e.db, func(st *state) ([]models.HierarchyRow, error) {
		return electionTable{st}.BoothHierarchy(ctx)
	})
}

func (e *Elections) InsertBooths(ctx context.Context, booths []models.Booth) (int, error) {
	return write(ctx, e.db, func(st *state) (int, error) {
		return electionTable{st}.InsertBooths(ctx, booths)
	})
}
