package grades

import (
	"math"
)

const (
	MinGradePoint = 0.0
	MaxGradePoint = 10.0
)

// RecordID is the zero-based position of a record in its store.
// Positions after a removed record shift down by one.
type RecordID int

// SemesterRecord is one semester's grade point and the credits it is weighted by.
type SemesterRecord struct {
	Label      string  `json:"label" yaml:"label"`
	GradePoint float64 `json:"grade_point" yaml:"grade_point"`
	Credits    float64 `json:"credits" yaml:"credits"`
}

// Summary is a snapshot of the aggregate state of a store.
type Summary struct {
	Count          int
	TotalCredits   float64
	WeightedPoints float64
	CGPA           float64
}

// Store is an ordered in-memory collection of semester records.
// It is owned by a single session and is not safe for concurrent use.
type Store struct {
	records []SemesterRecord
}

func NewStore() *Store {
	return &Store{}
}

// Restore builds a store from records without validating them. Aggregation
// treats undefined (NaN) fields of such records as zero.
func Restore(records []SemesterRecord) *Store {
	s := &Store{records: make([]SemesterRecord, len(records))}
	copy(s.records, records)
	return s
}

// ValidateGradePoint checks gp against the closed range [0, 10].
func ValidateGradePoint(gp float64) error {
	if math.IsNaN(gp) || math.IsInf(gp, 0) {
		return &ValidationError{Field: "grade point", Value: gp, Reason: "must be a number"}
	}
	if gp < MinGradePoint || gp > MaxGradePoint {
		return &ValidationError{Field: "grade point", Value: gp, Reason: "must be between 0 and 10"}
	}
	return nil
}

// ValidateCredits checks that c is a finite, strictly positive number.
func ValidateCredits(c float64) error {
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return &ValidationError{Field: "credits", Value: c, Reason: "must be a number"}
	}
	if c <= 0 {
		return &ValidationError{Field: "credits", Value: c, Reason: "must be greater than 0"}
	}
	return nil
}

func validate(gp, credits float64) error {
	if err := ValidateGradePoint(gp); err != nil {
		return err
	}
	return ValidateCredits(credits)
}

// Add appends a record and returns its id.
func (s *Store) Add(label string, gradePoint, credits float64) (RecordID, error) {
	if err := validate(gradePoint, credits); err != nil {
		return -1, err
	}
	s.records = append(s.records, SemesterRecord{Label: label, GradePoint: gradePoint, Credits: credits})
	return RecordID(len(s.records) - 1), nil
}

// Update replaces the numeric fields of the record at id. The label is kept.
func (s *Store) Update(id RecordID, gradePoint, credits float64) error {
	if err := s.check(id); err != nil {
		return err
	}
	if err := validate(gradePoint, credits); err != nil {
		return err
	}
	s.records[id].GradePoint = gradePoint
	s.records[id].Credits = credits
	return nil
}

func (s *Store) Remove(id RecordID) error {
	if err := s.check(id); err != nil {
		return err
	}
	s.records = append(s.records[:id], s.records[id+1:]...)
	return nil
}

func (s *Store) Clear() {
	s.records = nil
}

func (s *Store) Get(id RecordID) (SemesterRecord, error) {
	if err := s.check(id); err != nil {
		return SemesterRecord{}, err
	}
	return s.records[id], nil
}

func (s *Store) Len() int { return len(s.records) }

// Records returns a copy of the records in store order.
func (s *Store) Records() []SemesterRecord {
	out := make([]SemesterRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Labels returns the label of every record in store order.
func (s *Store) Labels() []string {
	out := make([]string, len(s.records))
	for i, r := range s.records {
		out[i] = r.Label
	}
	return out
}

// Aggregate returns the credit-weighted mean grade point, or 0 when the
// store is empty or the credits sum to zero.
func (s *Store) Aggregate() float64 {
	return s.Summary().CGPA
}

func (s *Store) TotalCredits() float64 {
	return s.Summary().TotalCredits
}

func (s *Store) Summary() Summary {
	sum := Summary{Count: len(s.records)}
	for _, r := range s.records {
		gp, c := orZero(r.GradePoint), orZero(r.Credits)
		sum.WeightedPoints += gp * c
		sum.TotalCredits += c
	}
	if sum.TotalCredits == 0 {
		return sum
	}
	sum.CGPA = sum.WeightedPoints / sum.TotalCredits
	return sum
}

func (s *Store) check(id RecordID) error {
	if id < 0 || int(id) >= len(s.records) {
		return &NotFoundError{ID: id, Len: len(s.records)}
	}
	return nil
}

// orZero substitutes 0 for an undefined field.
func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
