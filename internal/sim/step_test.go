package sim_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pacesim/internal/control"
	"github.com/san-kum/pacesim/internal/sim"
)

var _ = Describe("TunePID", func() {
	var (
		cfg   sim.Config
		state sim.State
		pid   control.PID
	)

	BeforeEach(func() {
		cfg = sim.DefaultConfig()
		initial := cfg.Initial()
		state, pid = initial.State, initial.Controller
	})

	It("matches the documented first period with zero noise", func() {
		next, nextPID, rec, err := cfg.TunePID(state, pid, 0)
		Expect(err).NotTo(HaveOccurred())

		Expect(next.Period).To(Equal(1))
		Expect(rec.Measured).To(BeNumerically("~", 1000, 1e-9))
		Expect(rec.Current).To(Equal(sim.ComparePoint{Period: 1, Reference: 6000, Actual: rec.Measured}))

		Expect(rec.ControlValue).To(BeNumerically("~", 5000, 1e-9))
		Expect(next.PacingFactor).To(BeNumerically("~", control.Normalize(0.1+rec.ControlValue/10000), 1e-12))
		Expect(next.PacingFactor).To(BeNumerically("~", 0.6, 1e-12))

		Expect(rec.Cumulative.Reference).To(BeNumerically("~", 8000, 1e-9))
		Expect(rec.Cumulative.Actual).To(BeNumerically("~", 1000, 1e-9))
		Expect(next.CumulativeInput).To(Equal(rec.Cumulative.Actual))

		Expect(nextPID.Setpoint()).To(BeNumerically("~", (800000.0-1000.0)/99.0, 1e-9))
		Expect(rec.Pacing).To(Equal(sim.ScalarPoint{Period: 1, Value: next.PacingFactor}))
	})

	It("is deterministic for identical inputs", func() {
		a1, p1, r1, err1 := cfg.TunePID(state, pid, 317)
		a2, p2, r2, err2 := cfg.TunePID(state, pid, 317)

		Expect(err1).NotTo(HaveOccurred())
		Expect(err2).NotTo(HaveOccurred())
		Expect(a1).To(Equal(a2))
		Expect(p1).To(Equal(p2))
		Expect(r1).To(Equal(r2))
	})

	It("never reports negative spend", func() {
		state.PacingFactor = 0
		next, _, rec, err := cfg.TunePID(state, pid, -800)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Measured).To(BeZero())
		Expect(next.CumulativeInput).To(BeZero())
	})

	It("clamps the setpoint at zero once the budget is overspent", func() {
		state.CumulativeInput = 900000
		_, nextPID, _, err := cfg.TunePID(state, pid, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(nextPID.Setpoint()).To(BeZero())
	})

	It("keeps the setpoint on the final period", func() {
		state.Period = cfg.Horizon - 1
		pid = pid.WithSetpoint(4321)
		next, nextPID, rec, err := cfg.TunePID(state, pid, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(next.Period).To(Equal(cfg.Horizon))
		Expect(nextPID.Setpoint()).To(Equal(4321.0))
		Expect(rec.Cumulative.Reference).To(Equal(state.Target))
	})

	It("rejects a step at the horizon", func() {
		state.Period = cfg.Horizon
		next, nextPID, _, err := cfg.TunePID(state, pid, 0)
		Expect(errors.Is(err, sim.ErrComplete)).To(BeTrue())

		var stepErr *sim.StepError
		Expect(errors.As(err, &stepErr)).To(BeTrue())
		Expect(stepErr.Period).To(Equal(cfg.Horizon))

		Expect(next).To(Equal(state))
		Expect(nextPID).To(Equal(pid))
	})

	It("uses the multiplicative rule when selected", func() {
		state.Mode = control.ModeMultiplicative
		next, _, rec, err := cfg.TunePID(state, pid, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.ControlValue).To(BeNumerically(">", 0))
		Expect(next.PacingFactor).To(BeNumerically("~", 0.11, 1e-12))
	})
})
