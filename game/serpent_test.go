package game

import (
	"math"
	"testing"
)

func straightSerpent(head Point, angle float64) *Serpent {
	return &Serpent{
		Name:        "s",
		Head:        head,
		Angle:       angle,
		TargetAngle: angle,
		Trail:       []Point{head},
		Length:      1,
		Speed:       100,
	}
}

func TestIntegrateMovesAlongHeading(t *testing.T) {
	s := straightSerpent(Point{X: 100, Y: 100}, 0)
	s.Integrate(0.1)
	if math.Abs(s.Head.X-110) > 1e-9 || math.Abs(s.Head.Y-100) > 1e-9 {
		t.Fatalf("head after step = %+v, want (110, 100)", s.Head)
	}
}

func TestBoostDoublesInstantSpeedOnly(t *testing.T) {
	a := straightSerpent(Point{X: 0, Y: 0}, 0)
	b := straightSerpent(Point{X: 0, Y: 0}, 0)
	b.Boosting = true
	a.Integrate(0.1)
	b.Integrate(0.1)
	if math.Abs(b.Head.X-2*a.Head.X) > 1e-9 {
		t.Fatalf("boost displacement %f, want double of %f", b.Head.X, a.Head.X)
	}
	if b.Speed != a.Speed {
		t.Fatalf("boost must not change base speed: %f vs %f", b.Speed, a.Speed)
	}
}

func TestSteerIgnoresInvalidAngle(t *testing.T) {
	s := straightSerpent(Point{X: 0, Y: 0}, 1)
	s.Steer(math.NaN(), true)
	if s.TargetAngle != 1 {
		t.Fatalf("NaN steer must not change target angle, got %f", s.TargetAngle)
	}
	if !s.Boosting {
		t.Fatalf("boost flag should still apply")
	}
	s.Steer(math.Inf(1), false)
	if s.TargetAngle != 1 {
		t.Fatalf("Inf steer must not change target angle, got %f", s.TargetAngle)
	}
}

func TestTrailDistanceSampling(t *testing.T) {
	s := straightSerpent(Point{X: 100, Y: 100}, 0)
	// 小步多次推进：轨迹点按距离采样，相邻记录点间距不小于 RecordDist
	for i := 0; i < 200; i++ {
		s.Integrate(0.01)
	}
	if len(s.Trail) < 3 {
		t.Fatalf("expected multiple trail points, got %d", len(s.Trail))
	}
	for i := 0; i+1 < len(s.Trail); i++ {
		if d := Dist(s.Trail[i], s.Trail[i+1]); d < RecordDist-1e-9 {
			t.Fatalf("trail points %d,%d only %f apart, want >= %f", i, i+1, d, RecordDist)
		}
	}
}

func TestTrailTrimmedToRetentionBound(t *testing.T) {
	s := straightSerpent(Point{X: 100, Y: 1500}, 0)
	s.Length = 2
	for i := 0; i < 500; i++ {
		s.Integrate(0.02)
	}
	max := s.Length*SegmentSpacing + TrailSlack
	if len(s.Trail) > max {
		t.Fatalf("trail len %d exceeds retention bound %d", len(s.Trail), max)
	}
}

func TestEatGrows(t *testing.T) {
	s := straightSerpent(Point{X: 0, Y: 0}, 0)
	f := &Food{Value: 3}
	s.Eat(f)
	if s.Score != 3 || s.Length != 2 {
		t.Fatalf("after eat: score=%d length=%d, want 3 and 2", s.Score, s.Length)
	}
	if s.Speed != 100+SpeedPerFood {
		t.Fatalf("after eat: speed=%f, want %f", s.Speed, 100+SpeedPerFood)
	}
}

func TestSampledBodyStride(t *testing.T) {
	s := straightSerpent(Point{X: 0, Y: 0}, 0)
	s.Length = 10
	s.Trail = make([]Point, 23)
	for i := range s.Trail {
		s.Trail[i] = Point{X: float64(i) * RecordDist, Y: 0}
	}
	body := s.SampledBody()
	want := len(s.Trail) / SegmentSpacing // 23/5 = 4，小于 Length
	if len(body) != want {
		t.Fatalf("sampled body len %d, want %d", len(body), want)
	}
	for i, p := range body {
		if p != s.Trail[i*SegmentSpacing] {
			t.Fatalf("segment %d sampled at wrong trail index", i)
		}
	}

	// Length 比可用节数小的时候以 Length 为准
	s.Length = 2
	if got := len(s.SampledBody()); got != 2 {
		t.Fatalf("sampled body len %d, want 2 (capped by length)", got)
	}
}

func TestNewSerpentSpawnsInterior(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := NewSerpent("x", Theme{})
		if s.Head.X < SpawnMargin || s.Head.X > WorldSize-SpawnMargin ||
			s.Head.Y < SpawnMargin || s.Head.Y > WorldSize-SpawnMargin {
			t.Fatalf("spawn %+v too close to border", s.Head)
		}
		if s.Theme.Color == "" {
			t.Fatalf("expected a default theme to be assigned")
		}
	}
}
