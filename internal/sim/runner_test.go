package sim_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pacesim/internal/sim"
)

var _ = Describe("Runner", func() {
	var (
		s      *sim.Simulator
		obs    *recordingObserver
		logger *slog.Logger
	)

	BeforeEach(func() {
		cfg := sim.DefaultConfig()
		cfg.Interval = time.Millisecond
		cfg.Seed = 7

		var err error
		s, err = sim.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		obs = &recordingObserver{}
		s.AddObserver(obs)
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	It("ticks until the horizon and stops", func() {
		err := sim.NewRunner(s, logger).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Status()).To(Equal(sim.Complete))

		steps := obs.Steps()
		Expect(steps).To(HaveLen(100))
		for i, rec := range steps {
			Expect(rec.Period).To(Equal(i + 1))
		}
	})

	It("stops when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- sim.NewRunner(s, logger).Run(ctx) }()

		Eventually(func() int { return len(obs.Steps()) }).Should(BeNumerically(">=", 3))
		cancel()

		Eventually(done).Should(Receive(MatchError(context.Canceled)))
		Expect(s.Status()).To(Equal(sim.Idle))
		Expect(s.Session().State.Period).To(BeNumerically("<", 100))
	})

	It("returns when the simulator is stopped from elsewhere", func() {
		done := make(chan error, 1)
		go func() { done <- sim.NewRunner(s, logger).Run(context.Background()) }()

		Eventually(func() int { return len(obs.Steps()) }).Should(BeNumerically(">=", 2))
		s.Stop()

		Eventually(done).Should(Receive(BeNil()))
		period := s.Session().State.Period
		Consistently(func() int { return s.Session().State.Period }, 20*time.Millisecond).Should(Equal(period))
	})

	It("refuses to run a completed session", func() {
		_, err := s.RunToCompletion(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(sim.NewRunner(s, logger).Run(context.Background())).To(MatchError(sim.ErrComplete))
	})
})

var _ = Describe("Ensemble", func() {
	It("runs every seed to completion", func() {
		results, err := sim.NewEnsemble(sim.DefaultConfig(), 4, 11, func() []sim.Metric {
			return []sim.Metric{&countMetric{}}
		}).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))

		for i, r := range results {
			Expect(r.Seed).To(Equal(int64(11 + i)))
			Expect(r.Session.Status).To(Equal(sim.Complete))
			Expect(r.Metrics).To(HaveKeyWithValue("count", 100.0))
		}
	})

	It("is reproducible for the same seeds", func() {
		a, err := sim.NewEnsemble(sim.DefaultConfig(), 2, 5, nil).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		b, err := sim.NewEnsemble(sim.DefaultConfig(), 2, 5, nil).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(a[0].Session).To(Equal(b[0].Session))
		Expect(a[1].Session).To(Equal(b[1].Session))
		Expect(a[0].Session).NotTo(Equal(a[1].Session))
	})
})

var _ = Describe("Noise", func() {
	It("never returns zero and stays within the amplitude", func() {
		n := sim.NewSignedNoise(1000, 42)
		var pos, neg int
		for i := 0; i < 5000; i++ {
			v := n.Sample()
			Expect(v).NotTo(BeZero())
			Expect(v).To(BeNumerically(">=", -1000))
			Expect(v).To(BeNumerically("<=", 1000))
			Expect(v).To(Equal(float64(int(v))))
			if v > 0 {
				pos++
			} else {
				neg++
			}
		}
		Expect(pos).To(BeNumerically(">", 2000))
		Expect(neg).To(BeNumerically(">", 2000))
	})

	It("is silent with zero amplitude", func() {
		Expect(sim.NewSignedNoise(0, 1).Sample()).To(BeZero())
	})

	It("replays sequences in order", func() {
		seq := sim.NewSequenceNoise(1, -2, 3)
		Expect([]float64{seq.Sample(), seq.Sample(), seq.Sample(), seq.Sample()}).To(Equal([]float64{1, -2, 3, 1}))
		Expect(sim.FixedNoise(-4).Sample()).To(Equal(-4.0))
	})
})
