package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pacesim/internal/control"
	"github.com/san-kum/pacesim/internal/sim"
)

var _ = Describe("Session transitions", func() {
	var (
		cfg  sim.Config
		sess sim.Session
	)

	apply := func(cmd sim.Command) error {
		next, _, err := cfg.Apply(sess, cmd, 0)
		sess = next
		return err
	}

	BeforeEach(func() {
		cfg = sim.DefaultConfig()
		sess = cfg.Initial()
	})

	It("starts idle with the documented defaults", func() {
		Expect(sess.Status).To(Equal(sim.Idle))
		Expect(sess.State).To(Equal(sim.State{
			Period:       0,
			PacingFactor: 0.1,
			Mode:         control.ModePID,
			Target:       800000,
		}))
		Expect(sess.Controller).To(Equal(control.DefaultPID()))
		Expect(sess.History.Len()).To(BeZero())
	})

	It("moves between idle and running", func() {
		Expect(apply(sim.Command{Kind: sim.CmdStart})).To(Succeed())
		Expect(sess.Status).To(Equal(sim.Running))

		Expect(apply(sim.Command{Kind: sim.CmdStart})).To(Succeed())
		Expect(sess.Status).To(Equal(sim.Running))

		Expect(apply(sim.Command{Kind: sim.CmdStop})).To(Succeed())
		Expect(sess.Status).To(Equal(sim.Idle))
	})

	It("only ticks while running", func() {
		next, rec, err := cfg.Apply(sess, sim.Command{Kind: sim.CmdTick}, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec).To(BeNil())
		Expect(next).To(Equal(sess))

		Expect(apply(sim.Command{Kind: sim.CmdStart})).To(Succeed())
		next, rec, err = cfg.Apply(sess, sim.Command{Kind: sim.CmdTick}, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec).NotTo(BeNil())
		Expect(next.State.Period).To(Equal(1))
	})

	It("allows a manual step while idle", func() {
		Expect(apply(sim.Command{Kind: sim.CmdStep})).To(Succeed())
		Expect(sess.Status).To(Equal(sim.Idle))
		Expect(sess.State.Period).To(Equal(1))
		Expect(sess.History.Current).To(HaveLen(1))
		Expect(sess.History.Cumulative).To(HaveLen(1))
		Expect(sess.History.PacingFactors).To(HaveLen(1))
	})

	It("completes exactly at the horizon and rejects further steps", func() {
		Expect(apply(sim.Command{Kind: sim.CmdStart})).To(Succeed())
		for i := 0; i < cfg.Horizon; i++ {
			Expect(apply(sim.Command{Kind: sim.CmdTick})).To(Succeed())
		}
		Expect(sess.State.Period).To(Equal(100))
		Expect(sess.Status).To(Equal(sim.Complete))
		Expect(sess.History.Len()).To(Equal(100))

		before := sess
		Expect(apply(sim.Command{Kind: sim.CmdStep})).To(MatchError(sim.ErrComplete))
		Expect(sess).To(Equal(before))

		next, rec, err := cfg.Apply(sess, sim.Command{Kind: sim.CmdTick}, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec).To(BeNil())
		Expect(next).To(Equal(before))

		Expect(apply(sim.Command{Kind: sim.CmdStart})).To(MatchError(sim.ErrComplete))
	})

	It("keys every series by period in order", func() {
		for i := 0; i < 10; i++ {
			Expect(apply(sim.Command{Kind: sim.CmdStep})).To(Succeed())
		}
		for i := 0; i < 10; i++ {
			Expect(sess.History.Current[i].Period).To(Equal(i + 1))
			Expect(sess.History.Cumulative[i].Period).To(Equal(i + 1))
			Expect(sess.History.PacingFactors[i].Period).To(Equal(i + 1))
		}
	})

	It("never rewrites an earlier snapshot's history", func() {
		for i := 0; i < 3; i++ {
			Expect(apply(sim.Command{Kind: sim.CmdStep})).To(Succeed())
		}
		snapshot := sess
		saved := append([]sim.ScalarPoint(nil), snapshot.History.PacingFactors...)

		a, _, err := cfg.Apply(snapshot, sim.Command{Kind: sim.CmdStep}, 500)
		Expect(err).NotTo(HaveOccurred())
		b, _, err := cfg.Apply(snapshot, sim.Command{Kind: sim.CmdStep}, -500)
		Expect(err).NotTo(HaveOccurred())

		Expect(snapshot.History.PacingFactors).To(Equal(saved))
		Expect(a.History.Current[3].Actual).NotTo(Equal(b.History.Current[3].Actual))
	})

	It("resets everything to defaults", func() {
		Expect(apply(sim.GainsCommand(2, 0.5, 0.1))).To(Succeed())
		Expect(apply(sim.Command{Kind: sim.CmdStart})).To(Succeed())
		for i := 0; i < 7; i++ {
			Expect(apply(sim.Command{Kind: sim.CmdTick})).To(Succeed())
		}

		Expect(apply(sim.Command{Kind: sim.CmdReset})).To(Succeed())
		Expect(sess).To(Equal(cfg.Initial()))
		Expect(sess.Controller).To(Equal(control.NewPID(1, 0, 0, 6000)))
		Expect(sess.History.Current).To(BeEmpty())
		Expect(sess.History.Cumulative).To(BeEmpty())
		Expect(sess.History.PacingFactors).To(BeEmpty())
	})

	Describe("edit locks", func() {
		It("accepts gains only before the first period", func() {
			Expect(apply(sim.GainsCommand(0.5, 0.01, 0.2))).To(Succeed())
			Expect(sess.Controller.Kp).To(Equal(0.5))
			Expect(sess.Controller.Ki).To(Equal(0.01))
			Expect(sess.Controller.Kd).To(Equal(0.2))

			Expect(apply(sim.Command{Kind: sim.CmdStep})).To(Succeed())
			Expect(apply(sim.GainsCommand(3, 3, 3))).To(MatchError(sim.ErrLocked))
			Expect(sess.Controller.Kp).To(Equal(0.5))
		})

		It("accepts a target only while stopped", func() {
			Expect(apply(sim.Command{Kind: sim.CmdStep})).To(Succeed())
			Expect(apply(sim.TargetCommand(500000))).To(Succeed())
			Expect(sess.State.Target).To(Equal(500000.0))

			Expect(apply(sim.Command{Kind: sim.CmdStart})).To(Succeed())
			Expect(apply(sim.TargetCommand(1))).To(MatchError(sim.ErrRunning))
			Expect(sess.State.Target).To(Equal(500000.0))
		})

		It("accepts a mode only while stopped before the first period", func() {
			Expect(apply(sim.ModeCommand(control.ModeMultiplicative))).To(Succeed())
			Expect(sess.State.Mode).To(Equal(control.ModeMultiplicative))

			Expect(apply(sim.Command{Kind: sim.CmdStart})).To(Succeed())
			Expect(apply(sim.ModeCommand(control.ModePID))).To(MatchError(sim.ErrRunning))

			Expect(apply(sim.Command{Kind: sim.CmdTick})).To(Succeed())
			Expect(apply(sim.Command{Kind: sim.CmdStop})).To(Succeed())
			Expect(apply(sim.ModeCommand(control.ModePID))).To(MatchError(sim.ErrLocked))
			Expect(sess.State.Mode).To(Equal(control.ModeMultiplicative))
		})

		It("rejects an unknown mode", func() {
			Expect(apply(sim.ModeCommand(control.Mode(9)))).NotTo(Succeed())
			Expect(sess.State.Mode).To(Equal(control.ModePID))
		})
	})
})
