package handlers_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/datatables/api/v1"
	"github.com/kubev2v/datatables/internal/config"
	"github.com/kubev2v/datatables/internal/handlers"
	"github.com/kubev2v/datatables/internal/models"
	"github.com/kubev2v/datatables/internal/services"
	"github.com/kubev2v/datatables/internal/store"
	"github.com/kubev2v/datatables/internal/store/migrations"
	"github.com/kubev2v/datatables/pkg/datatable"
	srvErrors "github.com/kubev2v/datatables/pkg/errors"
	"github.com/kubev2v/datatables/test"
)

var _ = Describe("Table Handlers", func() {
	var (
		mockTable *MockTableService
		mockStats *MockStatsService
		router    *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		mockTable = &MockTableService{}
		mockStats = &MockStatsService{}
		router = gin.New()
		handlers.New(mockTable, mockStats).Register(router.Group(""))
	})

	Describe("ListTables", func() {
		It("should list grids with their row counts", func() {
			mockTable.ListResult = []models.GridSummary{{Name: "users", Columns: []string{"id", "email"}}}
			mockStats.StatsResult = []models.TableStats{{Name: "users", Rows: 10}}

			req := httptest.NewRequest(http.MethodGet, "/tables", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var response v1.TableList
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Tables).To(HaveLen(1))
			Expect(response.Tables[0].Name).To(Equal("users"))
			Expect(*response.Tables[0].Rows).To(Equal(10))
		})

		It("should list grids without a stats service", func() {
			mockTable.ListResult = []models.GridSummary{{Name: "users", Columns: []string{"id"}}}
			router = gin.New()
			handlers.New(mockTable, nil).Register(router.Group(""))

			req := httptest.NewRequest(http.MethodGet, "/tables", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(Equal(`{"tables":[{"name":"users","columns":["id"]}]}`))
		})
	})

	Describe("GetTable", func() {
		BeforeEach(func() {
			mockTable.QueryResult = datatable.NewResponse(datatable.NewModernTransformer(datatable.Values{}), 2, 10, 1, []any{[]any{"a"}})
		})

		// Given bracketed query parameters
		// When the table is requested
		// Then the service receives the nested params and the envelope is returned
		It("should decode query parameters", func() {
			req := httptest.NewRequest(http.MethodGet, "/tables/users?draw=2&search[value]=john&protocol=modern&filter=id%20%3E%203", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(Equal(`{"draw":2,"recordsTotal":10,"recordsFiltered":1,"data":[["a"]]}`))

			Expect(mockTable.LastRequest.Table).To(Equal("users"))
			Expect(mockTable.LastRequest.Protocol).To(Equal(datatable.ProtocolModern))
			Expect(mockTable.LastRequest.Filter).To(Equal("id > 3"))

			search, found := mockTable.LastRequest.Params.Get("search")
			Expect(found).To(BeTrue())
			Expect(search).To(HaveKeyWithValue("value", "john"))
		})

		It("should decode a form body", func() {
			form := url.Values{"sEcho": {"4"}, "sSearch": {"ann"}}
			req := httptest.NewRequest(http.MethodPost, "/tables/users?protocol=legacy", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockTable.LastRequest.Protocol).To(Equal(datatable.ProtocolLegacy))

			v, found := mockTable.LastRequest.Params.Get("sSearch")
			Expect(found).To(BeTrue())
			Expect(v).To(Equal("ann"))
		})

		It("should decode a JSON body", func() {
			body := `{"draw":3,"start":0,"length":5,"filter":"department = \"SALES\"","protocol":"modern"}`
			req := httptest.NewRequest(http.MethodPost, "/tables/users", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockTable.LastRequest.Filter).To(Equal(`department = "SALES"`))
			Expect(mockTable.LastRequest.Protocol).To(Equal(datatable.ProtocolModern))

			v, found := mockTable.LastRequest.Params.Get("length")
			Expect(found).To(BeTrue())
			Expect(v).To(Equal(float64(5)))
		})

		It("should reject a malformed JSON body", func() {
			req := httptest.NewRequest(http.MethodPost, "/tables/users", strings.NewReader(`{"draw":`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(mockTable.CallCount).To(Equal(0))
		})

		DescribeTable("error mapping",
			func(err error, status int, message string) {
				mockTable.QueryError = err

				req := httptest.NewRequest(http.MethodGet, "/tables/users", nil)
				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)

				Expect(w.Code).To(Equal(status))

				var response map[string]string
				Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
				Expect(response["error"]).To(ContainSubstring(message))
			},
			Entry("unknown table", srvErrors.NewTableNotFoundError("users"), http.StatusNotFound, "users"),
			Entry("invalid request", srvErrors.NewInvalidRequestError("invalid filter: %s", "boom"), http.StatusBadRequest, "invalid filter"),
			Entry("database failure", errors.New("connection reset"), http.StatusInternalServerError, "failed to query table"),
		)
	})

	Describe("ExportTable", func() {
		It("should return the workbook as an attachment", func() {
			mockTable.ExportResult = &models.Export{Filename: "users.xlsx", ContentType: "application/test", Data: []byte("xlsx")}

			req := httptest.NewRequest(http.MethodGet, "/tables/users/export?search[value]=x", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("application/test"))
			Expect(w.Header().Get("Content-Disposition")).To(Equal(`attachment; filename="users.xlsx"`))
			Expect(w.Body.String()).To(Equal("xlsx"))
			Expect(mockTable.LastRequest.Table).To(Equal("users"))
		})

		It("should return 404 for an unknown table", func() {
			mockTable.ExportError = srvErrors.NewTableNotFoundError("nope")

			req := httptest.NewRequest(http.MethodGet, "/tables/nope/export", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("GetStats", func() {
		It("should return the table stats", func() {
			mockStats.StatsResult = []models.TableStats{{Name: "users", Rows: 3}, {Name: "gone", Error: "missing"}}

			req := httptest.NewRequest(http.MethodGet, "/stats", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var response v1.StatsResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Tables).To(HaveLen(2))
			Expect(*response.Tables[1].Error).To(Equal("missing"))
		})
	})
})

var _ = Describe("Table Handlers with the table service", func() {
	var (
		ctx    context.Context
		db     *sql.DB
		router *gin.Engine
	)

	BeforeEach(func() {
		ctx = context.Background()
		gin.SetMode(gin.TestMode)

		var err error
		db, err = store.NewDB(store.DriverDuckDB, ":memory:")
		Expect(err).NotTo(HaveOccurred())

		st := store.NewStore(db, store.DriverDuckDB)
		Expect(migrations.Run(ctx, db, st.Dialect())).To(Succeed())
		Expect(test.InsertUsers(ctx, db)).To(Succeed())

		cfg := config.NewConfigurationWithOptionsAndDefaults()
		srv := services.NewTableService(cfg.DataTable, st.DB(), st.Dialect(), nil)
		Expect(srv.Register(services.DefaultGrids()...)).To(Succeed())

		router = gin.New()
		handlers.New(srv, nil).Register(router.Group("/api/v1"))
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	// Given a legacy request ordering by full name descending
	// When it is sent as a query string
	// Then the legacy envelope lists the matching users in that order
	It("should answer a legacy request end to end", func() {
		query := "sEcho=7&sSearch=jo&iDisplayStart=0&iDisplayLength=2&iSortingCols=1&iSortCol_0=1&sSortDir_0=desc&bSortable_1=true"
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tables/users?"+query, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var response struct {
			Echo     int              `json:"sEcho"`
			Total    int              `json:"iTotalRecords"`
			Filtered int              `json:"iTotalDisplayRecords"`
			Data     []map[string]any `json:"aaData"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
		Expect(response.Echo).To(Equal(7))
		Expect(response.Total).To(Equal(10))
		Expect(response.Filtered).To(Equal(4))
		Expect(response.Data).To(HaveLen(2))
		Expect(response.Data[0]).To(HaveKeyWithValue("1", "johnny walker"))
		Expect(response.Data[0]).To(HaveKeyWithValue("DT_RowId", float64(3)))
		Expect(response.Data[1]).To(HaveKeyWithValue("1", "john smith"))
	})

	It("should return 400 for an unknown filter field", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tables/users?filter=salary%20%3E%201", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("salary"))
	})
})
