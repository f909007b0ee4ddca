package sim_test

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pacesim/internal/control"
	"github.com/san-kum/pacesim/internal/sim"
)

type recordingObserver struct {
	mu       sync.Mutex
	steps    []sim.StepRecord
	statuses []sim.Status
}

func (r *recordingObserver) OnStep(rec sim.StepRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, rec)
}

func (r *recordingObserver) OnStatus(s sim.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s)
}

func (r *recordingObserver) Steps() []sim.StepRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sim.StepRecord(nil), r.steps...)
}

func (r *recordingObserver) Statuses() []sim.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sim.Status(nil), r.statuses...)
}

type countMetric struct {
	count int
}

func (c *countMetric) Name() string               { return "count" }
func (c *countMetric) Observe(rec sim.StepRecord) { c.count++ }
func (c *countMetric) Value() float64             { return float64(c.count) }
func (c *countMetric) Reset()                     { c.count = 0 }

var _ = Describe("Simulator", func() {
	var (
		s   *sim.Simulator
		obs *recordingObserver
	)

	BeforeEach(func() {
		var err error
		s, err = sim.New(sim.DefaultConfig(), sim.WithNoise(sim.FixedNoise(0)))
		Expect(err).NotTo(HaveOccurred())
		obs = &recordingObserver{}
		s.AddObserver(obs)
		s.AddMetric(&countMetric{})
	})

	It("rejects an invalid config", func() {
		cfg := sim.DefaultConfig()
		cfg.Horizon = 0
		_, err := sim.New(cfg)
		Expect(err).To(MatchError(sim.ErrInvalidConfig))
	})

	It("runs the full horizon and then refuses to step", func() {
		sess, err := s.RunToCompletion(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(sess.State.Period).To(Equal(100))
		Expect(sess.Status).To(Equal(sim.Complete))
		Expect(obs.Steps()).To(HaveLen(100))
		Expect(s.Metrics()).To(HaveKeyWithValue("count", 100.0))

		_, err = s.Step()
		Expect(err).To(MatchError(sim.ErrComplete))
		Expect(s.Start()).To(MatchError(sim.ErrComplete))
		Expect(s.Session().State.Period).To(Equal(100))
	})

	It("tracks the budget closely without noise", func() {
		sess, err := s.RunToCompletion(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(sess.State.CumulativeInput).To(BeNumerically("~", sess.State.Target, sess.State.Target*0.05))
	})

	It("only ticks while running", func() {
		_, stepped, err := s.Tick()
		Expect(err).NotTo(HaveOccurred())
		Expect(stepped).To(BeFalse())

		Expect(s.Start()).To(Succeed())
		rec, stepped, err := s.Tick()
		Expect(err).NotTo(HaveOccurred())
		Expect(stepped).To(BeTrue())
		Expect(rec.Period).To(Equal(1))
	})

	It("notifies status observers", func() {
		Expect(s.Start()).To(Succeed())
		s.Stop()
		s.Reset()
		Expect(obs.Statuses()).To(Equal([]sim.Status{sim.Running, sim.Idle, sim.Idle}))
	})

	It("resets session and metrics", func() {
		Expect(s.SetGains(0.8, 0.01, 0)).To(Succeed())
		for i := 0; i < 5; i++ {
			_, err := s.Step()
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(s.SetGains(1, 1, 1)).To(MatchError(sim.ErrLocked))

		s.Reset()
		sess := s.Session()
		Expect(sess).To(Equal(sim.DefaultConfig().Initial()))
		Expect(s.Metrics()).To(HaveKeyWithValue("count", 0.0))
	})

	It("applies edits through the same locks as the transition function", func() {
		Expect(s.SetTarget(1000)).To(Succeed())
		Expect(s.SetMode(control.ModeMultiplicative)).To(Succeed())
		Expect(s.Start()).To(Succeed())
		Expect(s.SetTarget(2000)).To(MatchError(sim.ErrRunning))
		Expect(s.Session().State.Target).To(Equal(1000.0))
		Expect(s.Session().State.Mode).To(Equal(control.ModeMultiplicative))
	})

	It("consumes noise only when a period advances", func() {
		seq := sim.NewSequenceNoise(100, 200)
		sq, err := sim.New(sim.DefaultConfig(), sim.WithNoise(seq))
		Expect(err).NotTo(HaveOccurred())

		_, _, _ = sq.Tick()
		rec, err := sq.Step()
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Noise).To(Equal(100.0))
	})
})
