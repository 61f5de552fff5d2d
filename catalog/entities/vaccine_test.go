package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVaccine(t *testing.T, ids *Sequence[VaccineID], name string, diseases ...*Disease) *VaccineType {
	t.Helper()
	v, err := NewVaccineBuilder(ids).WithDiseases(diseases...).Create(name)
	require.NoError(t, err)
	return v
}

func TestSetSelected_DispatchesOncePerCallInOrder(t *testing.T) {
	ids := NewSequence[VaccineID](0)
	v := newTestVaccine(t, ids, "vaccine")

	var calls []string
	v.AddSelectionHandler(func() { calls = append(calls, "first") })
	v.AddSelectionHandler(func() { calls = append(calls, "second") })

	assert.Empty(t, calls, "handlers must not run on registration or construction")

	v.SetSelected(true)
	assert.Equal(t, []string{"first", "second"}, calls)

	v.SetSelected(true)
	assert.Equal(t, []string{"first", "second", "first", "second"}, calls, "repeated same-value sets still dispatch")
}

func TestSetSelected_HandlersSeeNewState(t *testing.T) {
	ids := NewSequence[VaccineID](0)
	v := newTestVaccine(t, ids, "vaccine")

	var seen []bool
	v.AddSelectionHandler(func() { seen = append(seen, v.Selected()) })

	v.SetSelected(true)
	v.SetSelected(false)

	assert.Equal(t, []bool{true, false}, seen)
}

func TestApplyFormDataHandlers_IgnoresSelection(t *testing.T) {
	ids := NewSequence[VaccineID](0)
	v := newTestVaccine(t, ids, "vaccine")

	count := 0
	v.AddFormDataHandler(func(f Form) {
		count++
		f.Set("note", f.Get("child")+" checked")
	})

	form := Form{"child": "Ada"}
	v.ApplyFormDataHandlers(form)

	assert.Equal(t, 1, count)
	assert.False(t, v.Selected())
	assert.Equal(t, "Ada checked", form.Get("note"))
}

func TestAltName(t *testing.T) {
	ids := NewSequence[VaccineID](0)

	plain := newTestVaccine(t, ids, "plain")
	assert.Equal(t, "plain", plain.AltName(0))
	assert.Equal(t, "plain", plain.AltName(7))

	scheme := DefaultVaccineScheme()
	scheme.DoseCount = 2
	named, err := NewVaccineBuilder(ids).WithScheme(scheme).WithAltDoseNames("dose I", "dose II").Create("named")
	require.NoError(t, err)

	assert.Equal(t, "dose I", named.AltName(0))
	assert.Equal(t, "dose II", named.AltName(1))
	assert.Panics(t, func() { named.AltName(2) })
}

func TestUseScheme(t *testing.T) {
	ids := NewSequence[VaccineID](0)

	twoDoses := DefaultVaccineScheme()
	twoDoses.DoseCount = 2
	twoDoses.MinOffsets[1] = 28

	v, err := NewVaccineBuilder(ids).WithAlternativeSchemes(twoDoses).Create("vaccine")
	require.NoError(t, err)
	assert.Equal(t, 1, v.Scheme().DoseCount)

	require.NoError(t, v.UseScheme(0))
	assert.Equal(t, 2, v.Scheme().DoseCount)
	assert.Equal(t, 28, v.Scheme().MinOffsets[1])

	assert.ErrorIs(t, v.UseScheme(1), ErrInvalidScheme)
	assert.ErrorIs(t, v.UseScheme(-1), ErrInvalidScheme)
}

func TestSchemeGettersReturnCopies(t *testing.T) {
	ids := NewSequence[VaccineID](0)

	primary := DefaultVaccineScheme()
	primary.DoseCount = 2
	primary.MinOffsets[1] = 28
	primary.RecommendedOffsets[1] = OffsetRange{Min: 28, Max: 60}

	alternative := DefaultVaccineScheme()
	alternative.DoseCount = 3
	alternative.MinOffsets[2] = 14

	v, err := NewVaccineBuilder(ids).WithScheme(primary).WithAlternativeSchemes(alternative).Create("vaccine")
	require.NoError(t, err)

	v.Scheme().MinOffsets[1] = 999
	v.Scheme().RecommendedOffsets[1] = OffsetRange{Min: 0, Max: 1}
	assert.Equal(t, 28, v.Scheme().MinOffsets[1])
	assert.Equal(t, OffsetRange{Min: 28, Max: 60}, v.Scheme().RecommendedOffsets[1])

	v.Schemes()[0].MinOffsets[2] = 999
	assert.Equal(t, 14, v.Schemes()[0].MinOffsets[2])

	// the active scheme does not share maps with the alternative it came from
	require.NoError(t, v.UseScheme(0))
	v.scheme.MinOffsets[2] = 1
	assert.Equal(t, 14, v.Schemes()[0].MinOffsets[2])
}

func TestTagsAndCoverage(t *testing.T) {
	ids := NewSequence[VaccineID](0)
	a := NewDisease(0, "a", Mandatory)
	b := NewDisease(1, "b", Optional)

	v, err := NewVaccineBuilder(ids).WithDiseases(a, a).WithTags(TagOral, TagLive).Create("oral")
	require.NoError(t, err)

	assert.Equal(t, []DiseaseID{a.ID}, v.Diseases())
	assert.True(t, v.Covers(a.ID))
	assert.False(t, v.Covers(b.ID))
	assert.True(t, v.HasTag(TagLive))
	assert.False(t, v.HasTag(TagIntramuscular))
}

func TestDiseaseTwoPhaseInit(t *testing.T) {
	d := NewDisease(3, "measles", Mandatory)
	assert.False(t, d.HasDefaultVaccine())
	assert.Equal(t, NoVaccine, d.DefaultVaccine())

	d.SetDefaultVaccine(4)
	assert.True(t, d.HasDefaultVaccine())
	assert.Equal(t, VaccineID(4), d.DefaultVaccine())

	d.SetChecked(true)
	assert.True(t, d.Checked())
}

func TestParseRecommendation(t *testing.T) {
	r, err := ParseRecommendation("RECOMMENDED")
	require.NoError(t, err)
	assert.Equal(t, Recommended, r)

	_, err = ParseRecommendation("sometimes")
	assert.Error(t, err)
}
