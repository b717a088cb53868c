package core

import "testing"

func BenchmarkBuildSampler(b *testing.B) {
	s := grid(100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := BuildSampler(s); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSample(b *testing.B) {
	sampler, err := BuildSampler(grid(100))
	if err != nil {
		b.Fatal(err)
	}
	rng := newRand(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sampler.Sample(rng)
	}
}

func BenchmarkBuildPointSet1800(b *testing.B) {
	s := grid(100)
	rng := newRand(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := BuildPointSet(s, 1800, rng); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkInterpolate(b *testing.B) {
	s := grid(50)
	from, _ := BuildPointSet(s, 1800, newRand(1))
	to, _ := BuildPointSet(s, 1800, newRand(2))
	m, err := ConstructMorphBuffer(from, to)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Interpolate(float32(i%100) / 100)
	}
}
