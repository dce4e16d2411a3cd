package monitoring

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/cavity/lbm"
	"github.com/sarchlab/cavity/sim"
)

var _ = Describe("Monitor", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *sim.SerialEngine
		driver   *MockDriver
		m        *Monitor
	)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		m.Handler().ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = sim.NewSerialEngine()
		driver = NewMockDriver(mockCtrl)

		m = NewMonitor()
		m.RegisterEngine(engine)
		m.RegisterDriver(driver)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should ignore reserved port numbers", func() {
		Expect(m.WithPortNumber(80).portNumber).To(Equal(0))
		Expect(m.WithPortNumber(8080).portNumber).To(Equal(8080))
	})

	It("should pause and continue the engine", func() {
		Expect(get("/api/pause").Code).To(Equal(http.StatusOK))
		Expect(engine.IsPaused()).To(BeTrue())

		Expect(get("/api/continue").Code).To(Equal(http.StatusOK))
		Expect(engine.IsPaused()).To(BeFalse())
	})

	It("should report the engine time", func() {
		d, err := lbm.MakeBuilder().
			WithEngine(engine).
			WithGrid(3, 3).
			WithIterations(4).
			Build("Cavity")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Run()).To(Succeed())

		rsp := struct {
			Now float64 `json:"now"`
		}{}
		rec := get("/api/now")
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Now).To(Equal(4.0))
	})

	It("should report the driver status", func() {
		driver.EXPECT().Status().Return(lbm.Status{
			Name:       "Cavity",
			Phase:      "stepping",
			Iteration:  12,
			Iterations: 100,
		})

		rec := get("/api/status")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(json.Valid(rec.Body.Bytes())).To(BeTrue())
		Expect(rec.Body.String()).To(ContainSubstring("stepping"))
	})

	It("should return 404 without a driver", func() {
		m.driver = nil

		Expect(get("/api/status").Code).To(Equal(http.StatusNotFound))
		Expect(get("/api/probe/1/1").Code).To(Equal(http.StatusNotFound))
	})

	It("should probe a cell", func() {
		driver.EXPECT().Probe(2, 3).Return(1.01, 0.02, -0.03, nil)

		rec := get("/api/probe/2/3")

		Expect(rec.Code).To(Equal(http.StatusOK))
		rsp := probeRsp{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp).To(Equal(probeRsp{I: 2, J: 3, Rho: 1.01, Ux: 0.02, Uy: -0.03}))
	})

	It("should reject a cell outside the grid", func() {
		driver.EXPECT().Probe(9, 0).
			Return(0.0, 0.0, 0.0, fmt.Errorf("%w: (9, 0)", lbm.ErrOutsideGrid))

		Expect(get("/api/probe/9/0").Code).To(Equal(http.StatusNotFound))
	})

	It("should reject a malformed coordinate", func() {
		Expect(get("/api/probe/a/0").Code).To(Equal(http.StatusBadRequest))
	})

	It("should list progress bars", func() {
		bar := m.CreateProgressBar("Cavity", 10)
		done := m.CreateProgressBar("Done", 1)
		bar.IncrementFinished(3)
		m.CompleteProgressBar(done)

		rec := get("/api/progress")

		var bars []progressBarRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].ID).To(Equal(bar.ID))
		Expect(bars[0].Name).To(Equal("Cavity"))
		Expect(bars[0].Total).To(Equal(uint64(10)))
		Expect(bars[0].Finished).To(Equal(uint64(3)))
	})

	It("should report process resources", func() {
		rec := get("/api/resource")

		rsp := resourceRsp{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should collect a cpu profile", func() {
		m.profileDuration = 10 * time.Millisecond

		rec := get("/api/profile")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(json.Valid(rec.Body.Bytes())).To(BeTrue())
	})

	It("should serve on a random port", func() {
		driver.EXPECT().Status().Return(lbm.Status{Name: "Cavity"})

		url := m.StartServer()

		rsp, err := http.Get(url + "/api/status")
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		body, err := io.ReadAll(rsp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
		Expect(string(body)).To(ContainSubstring("Cavity"))
	})
})

var _ = Describe("ProgressBar", func() {
	It("should count finished items", func() {
		bar := &ProgressBar{Total: 5}

		bar.IncrementFinished(2)
		bar.IncrementFinished(1)
		Expect(bar.snapshot().Finished).To(Equal(uint64(3)))

		bar.SetFinished(5)
		Expect(bar.snapshot().Finished).To(Equal(uint64(5)))
	})
})
