package world

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ufoai/geoscape/internal/content"
	"github.com/ufoai/geoscape/internal/geo"
	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/internal/rng"
	"github.com/ufoai/geoscape/pkg/core"
)

func newTestWorld(t *testing.T, r rng.Source) *World {
	t.Helper()
	tables, err := content.Default()
	require.NoError(t, err)
	scn, err := DefaultScenario()
	require.NoError(t, err)
	w, err := New(scn, tables, r, nil)
	require.NoError(t, err)
	return w
}

func firstUFOType(t *testing.T) string {
	t.Helper()
	tables, err := content.Default()
	require.NoError(t, err)
	require.NotEmpty(t, tables.UFOs)
	return tables.UFOs[0].ID
}

func TestDefaultScenario(t *testing.T) {
	w := newTestWorld(t, rng.New(1))

	assert.Len(t, w.Geography.Nations(), 6)
	require.Len(t, w.Bases.All(), 1)
	assert.Len(t, w.Aircraft.All(), 2)
	assert.Len(t, w.Installations.All(), 1)
	assert.Equal(t, 2, w.Radar.Len())
	assert.Equal(t, 1, w.Clock.Now().Day)

	hq := w.Bases.All()[0]
	assert.Equal(t, "europe", w.Geography.Nation(hq.Pos))
	assert.True(t, w.Radar.Covers(hq.Pos))
}

func TestParseScenario_Invalid(t *testing.T) {
	_, err := ParseScenario([]byte(`
start: {day: 0}
nations:
  - id: a
    area: [[0, 0], [1, 1]]
  - id: a
    area: [[0, 0], [1, 0], [1, 1]]
bases:
  - name: broken
    pos: "nowhere"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start day")
	assert.Contains(t, err.Error(), "duplicate nation a")
	assert.Contains(t, err.Error(), "base broken")
}

func TestGeography(t *testing.T) {
	w := newTestWorld(t, rng.New(7))
	g := w.Geography

	assert.Equal(t, "", g.Nation(core.Position{Lon: -30, Lat: -50}), "south atlantic")
	assert.Equal(t, defaultTerrain, g.Terrain(core.Position{Lon: -30, Lat: -50}))
	assert.Equal(t, defaultCivilians, g.CivilianCount(core.Position{Lon: -30, Lat: -50}))
	assert.Equal(t, "desert", g.Terrain(core.Position{Lon: 20, Lat: 10}))

	for i := 0; i < 50; i++ {
		pos, ok := g.RandomPosition(core.CategoryTerrorAttack, rng.New(int64(i)))
		require.True(t, ok)
		assert.NotEmpty(t, g.Nation(pos), "random position %v must be inside a nation", pos)
	}

	_, ok := NewGeography().RandomPosition(core.CategoryRecon, rng.New(1))
	assert.False(t, ok)
}

func TestBases_ChooseAttackTargetSkipsBasesUnderAttack(t *testing.T) {
	radar := NewRadar()
	bases := NewBases(radar)
	a, err := bases.Add("A", core.Position{Lon: 0, Lat: 0}, 10)
	require.NoError(t, err)
	b, err := bases.Add("B", core.Position{Lon: 50, Lat: 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, []int{a.Idx, b.Idx})

	bases.SetUnderAttack(a, true)
	assert.Same(t, b, bases.ChooseAttackTarget(rng.NewSequence().WithInts(0)))

	bases.SetUnderAttack(b, true)
	assert.Nil(t, bases.ChooseAttackTarget(rng.New(1)))

	bases.Destroy(a)
	assert.Equal(t, 0, radar.Len())
	_, ok := bases.Base(a.Idx)
	assert.False(t, ok)
}

func TestInstallations_AttackUntilDestroyed(t *testing.T) {
	radar := NewRadar()
	in := NewInstallations(radar)
	tower, err := in.Add("Tower", core.Position{Lon: 10, Lat: 10}, 2, 5)
	require.NoError(t, err)

	assert.False(t, in.Attack(tower))
	assert.True(t, in.Attack(tower))
	assert.Empty(t, in.All())
	assert.False(t, radar.Covers(tower.Pos))
	assert.False(t, in.Attack(tower), "attacking a destroyed installation is a no-op")
}

func TestRadar_RejectsDegenerateCoverage(t *testing.T) {
	radar := NewRadar()
	bases := NewBases(radar)
	_, err := bases.Add("Nowhere", core.Position{Lon: 0, Lat: 0}, math.NaN())
	assert.Error(t, err)
	assert.Empty(t, bases.All())
	assert.Equal(t, 0, radar.Len())

	in := NewInstallations(radar)
	_, err = in.Add("Mast", core.Position{Lon: 5, Lat: 5}, 1, math.Inf(1))
	assert.Error(t, err)
	assert.Empty(t, in.All())

	tower, err := in.Add("Tower", core.Position{Lon: 5, Lat: 5}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, tower.Idx, "failed adds do not use up an index")
}

func TestAlienBases_Build(t *testing.T) {
	ab := NewAlienBases()
	b, err := ab.Build(core.Position{Lon: 10, Lat: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, b.Idx)

	_, err = ab.Build(core.Position{Lon: 10.5, Lat: 10.5})
	assert.ErrorIs(t, err, ErrAlienBaseTooClose)

	ab.Supply(b)
	assert.Equal(t, 1, b.Supply)
	assert.Same(t, b, ab.Random(rng.New(3)))

	ab.Destroy(b)
	assert.Equal(t, 0, ab.Count())
	assert.Nil(t, ab.Random(rng.New(3)))
}

func TestAircraft_CrashAndRecover(t *testing.T) {
	home := &core.Base{Idx: 1, Pos: core.Position{Lon: 5, Lat: 5}}
	f := NewAircraft()
	a := f.Add("Skyranger", home)

	f.Crash(a, core.Position{Lon: 30, Lat: 30})
	assert.True(t, a.Crashed)

	f.Recover(a)
	assert.False(t, a.Crashed)
	assert.Equal(t, home.Pos, a.Pos)

	f.Destroy(a)
	_, ok := f.Aircraft(a.Idx)
	assert.False(t, ok)
}

func TestFleet_FliesAndArrives(t *testing.T) {
	w := newTestWorld(t, rng.New(11))
	u, err := w.Fleet.Create(firstUFOType(t))
	require.NoError(t, err)
	assert.Equal(t, "ufo-1", u.ID)
	assert.True(t, u.OnGeoscape)

	u.Pos = core.Position{Lon: 0, Lat: 0}
	w.Fleet.SendTo(u, core.Position{Lon: 3, Lat: 4})

	// 5 degrees at UFOSpeed takes 1250s
	assert.Empty(t, w.Fleet.Run(1000))
	assert.InDelta(t, 2.4, u.Pos.Lon, 1e-9)
	assert.InDelta(t, 3.2, u.Pos.Lat, 1e-9)

	arrived := w.Fleet.Run(1000)
	require.Len(t, arrived, 1)
	assert.Same(t, u, arrived[0])
	assert.Equal(t, core.Position{Lon: 3, Lat: 4}, u.Pos)

	assert.Empty(t, w.Fleet.Run(1000), "a UFO at its destination does not arrive twice")

	w.Fleet.Land(u)
	w.Fleet.SendTo(u, core.Position{Lon: 10, Lat: 10})
	assert.Empty(t, w.Fleet.Run(10000), "landed UFOs do not move")

	_, err = w.Fleet.Create("no-such-ufo")
	assert.Error(t, err)
}

func TestFleet_OffsetsCompactOnDestroy(t *testing.T) {
	w := newTestWorld(t, rng.New(5))
	typ := firstUFOType(t)
	a, _ := w.Fleet.Create(typ)
	b, _ := w.Fleet.Create(typ)

	off, ok := w.Fleet.Offset(b)
	require.True(t, ok)
	assert.Equal(t, 1, off)

	w.Fleet.Destroy(a)
	off, ok = w.Fleet.Offset(b)
	require.True(t, ok)
	assert.Equal(t, 0, off)
	got, ok := w.Fleet.At(0)
	require.True(t, ok)
	assert.Same(t, b, got)
	_, ok = w.Fleet.At(1)
	assert.False(t, ok)
	assert.False(t, a.OnGeoscape)
}

func TestFleet_RadarDetection(t *testing.T) {
	w := newTestWorld(t, rng.New(5))
	u, err := w.Fleet.Create(firstUFOType(t))
	require.NoError(t, err)

	hq := w.Bases.All()[0]
	u.Pos = hq.Pos
	u.Destination = hq.Pos
	w.Fleet.Run(1)
	assert.True(t, u.Detected)

	u.Pos = core.Position{Lon: -30, Lat: -50}
	u.Destination = u.Pos
	w.Fleet.Run(1)
	assert.False(t, u.Detected)
}

func TestFleet_SpotLastsUntilTakeOff(t *testing.T) {
	w := newTestWorld(t, rng.New(5))
	u, err := w.Fleet.Create(firstUFOType(t))
	require.NoError(t, err)
	u.Pos = core.Position{Lon: -30, Lat: -50}
	u.Destination = u.Pos

	w.Fleet.Land(u)
	w.Fleet.Spot(u)
	w.Fleet.Run(1)
	assert.True(t, u.Detected)
	assert.True(t, u.Spotted)

	w.Fleet.TakeOff(u)
	w.Fleet.Run(1)
	assert.False(t, u.Detected)
	assert.False(t, u.Spotted)
}

func TestXVI(t *testing.T) {
	w := newTestWorld(t, rng.New(1))
	w.XVI.Spread(core.Position{Lon: 8, Lat: 47})
	w.XVI.Spread(core.Position{Lon: 8, Lat: 47})
	w.XVI.Spread(core.Position{Lon: -30, Lat: -50})

	assert.Equal(t, 2.0, w.XVI.Level("europe"))
	assert.InDelta(t, 2.0/6, w.XVI.AverageRate(), 1e-9)
}

func TestMessageLog(t *testing.T) {
	clock := NewClock(core.NewDate(3, 60))
	log := NewMessageLog(clock, nil)
	m := &mission.Mission{ID: "recon-1"}

	log.Add("UFO detected", "over Europe", m)
	log.Add("Research", "done", nil)

	recent := log.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "recon-1", recent[0].MissionID)
	assert.Equal(t, core.NewDate(3, 60), recent[0].Date)
	assert.Empty(t, recent[1].MissionID)

	assert.Len(t, log.Drain(), 2)
	assert.Equal(t, 0, log.Len())
}

func TestSelection_ForgetsRemovedThings(t *testing.T) {
	s := NewSelection()
	m := &mission.Mission{}
	u := &core.UFO{}
	a := &core.Aircraft{}
	other := &core.Aircraft{}
	s.Mission, s.UFO, s.Aircraft = m, u, a
	s.Intercept(a, u)
	s.Intercept(other, u)

	s.NotifyUFORemoved(u, false)
	assert.Nil(t, s.UFO)
	assert.Len(t, s.Interceptors, 2, "a UFO leaving the map is still pursued")

	s.NotifyUFORemoved(u, true)
	assert.Empty(t, s.Interceptors)

	s.NotifyMissionRemoved(m)
	s.NotifyAircraftRemoved(a)
	assert.Nil(t, s.Mission)
	assert.Nil(t, s.Aircraft)
}

func TestClock(t *testing.T) {
	c := NewClock(core.NewDate(1, 0))
	assert.Equal(t, core.NewDate(1, 3600), c.Advance(3600))
	c.Stop()
	assert.True(t, c.Stopped())
	c.Start()
	assert.False(t, c.Stopped())
}

func TestState_RoundTrip(t *testing.T) {
	w := newTestWorld(t, rng.New(9))
	u, err := w.Fleet.Create(firstUFOType(t))
	require.NoError(t, err)
	_, err = w.AlienBases.Build(core.Position{Lon: 20, Lat: 0})
	require.NoError(t, err)
	w.Aircraft.Crash(w.Aircraft.All()[1], core.Position{Lon: 1, Lat: 1})
	w.XVI.Spread(core.Position{Lon: 8, Lat: 47})
	w.Clock.Advance(7200)
	w.Clock.Stop()

	data, err := json.Marshal(w.State())
	require.NoError(t, err)

	fresh := newTestWorld(t, rng.New(9))
	fleet := fresh.Fleet
	var st State
	require.NoError(t, json.Unmarshal(data, &st))
	require.NoError(t, fresh.Restore(st))

	assert.Same(t, fleet, fresh.Fleet, "registries keep their identity")
	assert.Equal(t, w.Clock.Now(), fresh.Clock.Now())
	assert.True(t, fresh.Clock.Stopped())
	require.Equal(t, 1, fresh.Fleet.Len())
	restored, _ := fresh.Fleet.At(0)
	assert.Equal(t, *u, *restored)
	assert.Equal(t, 1, fresh.AlienBases.Count())
	assert.Equal(t, 1.0, fresh.XVI.Level("europe"))

	crashed, ok := fresh.Aircraft.Aircraft(2)
	require.True(t, ok)
	assert.True(t, crashed.Crashed)
	require.NotNil(t, crashed.HomeBase)
	assert.Equal(t, "Headquarters", crashed.HomeBase.Name)
	assert.Equal(t, 2, fresh.Radar.Len())

	next, err := fresh.Fleet.Create(firstUFOType(t))
	require.NoError(t, err)
	assert.Equal(t, 2, next.Idx, "ids continue after the restored ones")
}

func TestState_UnknownHomeBase(t *testing.T) {
	w := newTestWorld(t, rng.New(1))
	before, coverage := w.State(), w.Radar.Len()
	st := w.State()
	st.Bases = nil
	st.Aircraft[0].HomeBase = 42
	assert.ErrorContains(t, w.Restore(st), "unknown home base 42")

	assert.Equal(t, before, w.State(), "a failed restore leaves the world alone")
	assert.Equal(t, coverage, w.Radar.Len())
}

func TestAircraft_HomedAt(t *testing.T) {
	f := NewAircraft()
	hq := &core.Base{Idx: 1, Name: "HQ"}
	outpost := &core.Base{Idx: 2, Name: "Outpost"}
	a := f.Add("Skyranger", hq)
	b := f.Add("Interceptor", hq)
	f.Add("Firebird", outpost)
	f.Crash(b, core.Position{Lon: 3, Lat: 4})

	assert.Equal(t, []*core.Aircraft{a, b}, f.HomedAt(hq))
	assert.Empty(t, f.HomedAt(&core.Base{Idx: 3}))
}

func TestCircleCoverageMatchesRadar(t *testing.T) {
	r := NewRadar()
	center := core.Position{Lon: 100, Lat: 10}
	require.NoError(t, r.Add("x", center, 3))
	disc, err := geo.Circle(center, 3, radarSegments)
	require.NoError(t, err)
	assert.True(t, geo.Contains(disc.AsGeometry(), center))
	assert.True(t, r.Covers(core.Position{Lon: 102, Lat: 10}))
	assert.False(t, r.Covers(core.Position{Lon: 104, Lat: 10}))

	require.NoError(t, r.Add("x", center, 5))
	assert.Error(t, r.Add("x", center, 0))
	assert.Equal(t, 1, r.Len(), "re-adding an owner replaces its disc")
	assert.True(t, r.Covers(core.Position{Lon: 104, Lat: 10}))
}
