package scene_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/physics"
	"github.com/san-kum/boxsim/internal/scene"
)

var _ = Describe("Scene", func() {
	for _, engine := range physics.Engines() {
		engine := engine

		Context("on "+engine, func() {
			var s *scene.Scene

			BeforeEach(func() {
				cfg := config.Default()
				cfg.Engine = engine
				var err error
				s, err = scene.New(cfg)
				Expect(err).NotTo(HaveOccurred())
			})

			It("sets up a static ground and one tracked dynamic box", func() {
				Expect(s.World().Bodies()).To(HaveLen(2))
				Expect(s.Ground().Type()).To(Equal(dynamo.StaticBody))
				Expect(s.Ground().Position()).To(Equal(dynamo.Vec2{X: 0, Y: -10}))
				Expect(s.Len()).To(Equal(1))
				box := s.Tracked()[0]
				Expect(box.Type()).To(Equal(dynamo.DynamicBody))
				Expect(box.Position()).To(Equal(dynamo.Vec2{X: 0, Y: 4}))
			})

			It("grows the tracked list by exactly one per spawn", func() {
				for i := 1; i <= 5; i++ {
					b, err := s.Spawn(dynamo.Vec2{X: float64(i) * 3, Y: 10})
					Expect(err).NotTo(HaveOccurred())
					Expect(s.Len()).To(Equal(1 + i))
					Expect(s.Tracked()[s.Len()-1]).To(BeIdenticalTo(b))
				}
				Expect(s.World().Bodies()).To(HaveLen(7))
			})

			It("places spawned bodies at the requested point", func() {
				b, err := s.Spawn(dynamo.Vec2{X: -7, Y: 12})
				Expect(err).NotTo(HaveOccurred())
				Expect(b.Position().X).To(BeNumerically("~", -7, 1e-9))
				Expect(b.Position().Y).To(BeNumerically("~", 12, 1e-9))
				Expect(b.Type()).To(Equal(dynamo.DynamicBody))
			})

			It("pushes every tracked body upward on impulse", func() {
				_, err := s.Spawn(dynamo.Vec2{X: 10, Y: 10})
				Expect(err).NotTo(HaveOccurred())
				s.Kick()
				for _, b := range s.Tracked() {
					Expect(b.LinearVelocity().Y).To(BeNumerically(">", 0))
				}
				Expect(s.Ground().LinearVelocity().Len()).To(BeZero())
			})

			It("keeps the ground still while the box falls", func() {
				box := s.Tracked()[0]
				prev := box.Position().Y
				for i := 0; i < 20; i++ {
					s.Step()
					Expect(box.Position().Y).To(BeNumerically("<", prev))
					prev = box.Position().Y
					Expect(s.Ground().Position()).To(Equal(dynamo.Vec2{X: 0, Y: -10}))
				}
			})

			It("rebuilds a fresh world on reset", func() {
				_, err := s.Spawn(dynamo.Vec2{Y: 20})
				Expect(err).NotTo(HaveOccurred())
				s.Step()
				fresh, err := s.Reset()
				Expect(err).NotTo(HaveOccurred())
				Expect(fresh.Len()).To(Equal(1))
				Expect(fresh.Tracked()[0].Position()).To(Equal(dynamo.Vec2{X: 0, Y: 4}))
			})
		})
	}

	It("does not track a body the world rejected", func() {
		cfg := config.Default()
		cfg.Spawn.HalfExtents = dynamo.Vec2{}
		s, err := scene.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		_, err = s.Spawn(dynamo.Vec2{Y: 5})
		Expect(err).To(MatchError(dynamo.ErrInvalidDef))
		Expect(s.Len()).To(Equal(1))
	})

	It("reports unknown engines", func() {
		cfg := config.Default()
		cfg.Engine = "havok"
		_, err := scene.New(cfg)
		Expect(err).To(MatchError(dynamo.ErrUnknownEngine))
	})

	It("copies the configuration it was built from", func() {
		cfg := config.Default()
		s, err := scene.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		cfg.Spawn.Density = 99
		Expect(s.Config().Spawn.Density).To(Equal(1.0))
	})
})
