package inspection

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"franchiseops/internal/checklist"
	"franchiseops/internal/core"
)

var testCatalog = checklist.Catalog{
	{
		ID:   "kitchen",
		Name: "Kitchen",
		Categories: []checklist.Category{
			{Title: "Hygiene", Items: []checklist.Item{
				{Name: "Hands washed", Points: 10},
				{Name: "Surfaces clean", Points: 10},
			}},
		},
	},
	{
		ID:   "buffet",
		Name: "Buffet",
		Categories: []checklist.Category{
			{Title: "Temperature", Items: []checklist.Item{{Name: "Hot line", Points: 5}}},
		},
	},
	{
		ID:   "restrooms",
		Name: "Restrooms",
		Categories: []checklist.Category{
			{Title: "Cleanliness", Items: []checklist.Item{{Name: "Sinks clean", Points: 5}}},
		},
	},
}

type fakeFranchises map[string]string

func (f fakeFranchises) FranchiseName(_ context.Context, id string) (string, error) {
	name, ok := f[id]
	if !ok {
		return "", core.ErrFranchiseNotFound
	}
	return name, nil
}

type memBlobs struct {
	mu   sync.Mutex
	keys []string
}

func (m *memBlobs) Put(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	_, _ = io.ReadAll(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	return "https://cdn.test/" + key, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, testCatalog, fakeFranchises{"f1": "Estância Centro"}, &memBlobs{}, nil)
}

func kitchenRequest() SubmitRequest {
	return SubmitRequest{
		FranchiseID: "f1",
		InspectorID: "u1",
		Date:        "2024-05-01",
		Responses: []ResponseInput{
			{Sector: "kitchen", Category: "Hygiene", Item: "Hands washed", Status: "OK"},
			{Sector: "kitchen", Category: "Hygiene", Item: "Surfaces clean", Status: "NO", Observation: "grease"},
			{Sector: "buffet", Category: "Temperature", Item: "Hot line", Status: "OK"},
		},
	}
}

func TestSubmit_ScoresEverySectorInCatalogOrder(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := newTestService(repo)

	saved, err := svc.Submit(context.Background(), kitchenRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved) != 3 {
		t.Fatalf("expected 3 sectors, got %d", len(saved))
	}

	k := saved[0]
	if k.Sector != "kitchen" || k.TotalPoints != 20 || k.PointsAchieved != 10 || k.Percentage != 50 {
		t.Fatalf("kitchen %+v", k)
	}
	if k.Rating != checklist.RatingVeryPoor {
		t.Fatalf("kitchen rating %s", k.Rating)
	}
	if saved[1].Rating != checklist.RatingExcellent {
		t.Fatalf("buffet %+v", saved[1])
	}
	// restrooms never answered
	if saved[2].PointsAchieved != 0 || saved[2].TotalPoints != 5 {
		t.Fatalf("restrooms %+v", saved[2])
	}

	items, _ := repo.ListItems(context.Background(), []string{saved[2].ID})
	if len(items) != 1 || items[0].Status != checklist.StatusNotOK || items[0].Points != 5 {
		t.Fatalf("unanswered item %+v", items)
	}
}

func TestSubmit_AbortsOnFirstFailingSector(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.FailOn = func(ns NewSector) error {
		if ns.Inspection.Sector == "buffet" {
			return errors.New("connection reset")
		}
		return nil
	}
	svc := newTestService(repo)

	saved, err := svc.Submit(context.Background(), kitchenRequest())

	var sErr *SectorError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected SectorError, got %v", err)
	}
	if sErr.Sector != "buffet" || sErr.Op != "save inspection" {
		t.Fatalf("got %+v", sErr)
	}
	if !strings.Contains(err.Error(), "buffet") {
		t.Fatalf("message does not name the sector: %v", err)
	}

	// kitchen stays committed, restrooms is never attempted
	if len(saved) != 1 || saved[0].Sector != "kitchen" {
		t.Fatalf("saved %+v", saved)
	}
	if len(sErr.Committed) != 1 || sErr.Committed[0] != saved[0].ID {
		t.Fatalf("committed %v", sErr.Committed)
	}
	all, _ := repo.List(context.Background(), ListFilter{})
	if len(all) != 1 {
		t.Fatalf("stored %d records", len(all))
	}
}

func TestSubmit_Validation(t *testing.T) {
	svc := newTestService(NewInMemoryRepository())

	cases := map[string]func(*SubmitRequest){
		"bad date":       func(r *SubmitRequest) { r.Date = "01/05/2024" },
		"no franchise":   func(r *SubmitRequest) { r.FranchiseID = "" },
		"unknown":        func(r *SubmitRequest) { r.FranchiseID = "nope" },
		"invalid status": func(r *SubmitRequest) { r.Responses[0].Status = "MAYBE" },
	}
	for name, mutate := range cases {
		req := kitchenRequest()
		mutate(&req)
		if _, err := svc.Submit(context.Background(), req); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestSubmit_UploadsDataURLPhotos(t *testing.T) {
	repo := NewInMemoryRepository()
	blobs := &memBlobs{}
	svc := NewService(repo, testCatalog, nil, blobs, nil)

	img := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpg"))
	req := kitchenRequest()
	req.Responses[1].Photos = []string{img, "https://cdn.test/existing.jpg", img}

	saved, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blobs.keys) != 2 {
		t.Fatalf("uploads %v", blobs.keys)
	}

	items, _ := repo.ListItems(context.Background(), []string{saved[0].ID})
	photos := items[1].Photos
	if len(photos) != 3 || photos[1] != "https://cdn.test/existing.jpg" {
		t.Fatalf("photos %v", photos)
	}
	for _, p := range photos {
		if strings.HasPrefix(p, "data:") {
			t.Fatalf("data URL persisted: %v", photos)
		}
	}
	if !strings.HasPrefix(blobs.keys[0], "inspections/f1/2024-05-01/kitchen/") {
		t.Fatalf("key %q", blobs.keys[0])
	}
}

func TestSubmit_PhotoUploadFailureNamesSector(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), testCatalog, nil, nil, nil)

	req := kitchenRequest()
	req.Responses[2].Photos = []string{"data:image/png;base64,AAAA"}

	_, err := svc.Submit(context.Background(), req)
	var sErr *SectorError
	if !errors.As(err, &sErr) || sErr.Sector != "buffet" || sErr.Op != "upload photos" {
		t.Fatalf("got %v", err)
	}
}

func TestUnified_DedupesResubmission(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.Submit(ctx, kitchenRequest())
	if err != nil {
		t.Fatal(err)
	}

	retry := kitchenRequest()
	retry.Responses[1].Status = "OK"
	second, err := svc.Submit(ctx, retry)
	if err != nil {
		t.Fatal(err)
	}

	rep, err := svc.Unified(ctx, first[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Sectors) != 3 {
		t.Fatalf("sectors %+v", rep.Sectors)
	}
	for _, s := range rep.Sectors {
		if s.Sector == "kitchen" && s.InspectionID != second[0].ID {
			t.Fatalf("kept older kitchen record")
		}
	}
	// 20 + 5 + 0 achieved out of 30
	if rep.TotalPoints != 30 || rep.PointsAchieved != 25 {
		t.Fatalf("totals %d/%d", rep.PointsAchieved, rep.TotalPoints)
	}
	if rep.OKCount != 3 || rep.NotOKCount != 1 {
		t.Fatalf("counts %d/%d", rep.OKCount, rep.NotOKCount)
	}
}

func TestUnified_NotFound(t *testing.T) {
	svc := newTestService(NewInMemoryRepository())
	if _, err := svc.Unified(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

func ptr[T any](v T) *T { return &v }

func TestUpdate_ReclassifiesWhenPointsPatched(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := newTestService(repo)
	rec := repo.AddRecord(Inspection{
		FranchiseID: "f1", Date: "2024-05-01", Sector: "kitchen",
		TotalPoints: 20, PointsAchieved: 10, Percentage: 50, Rating: checklist.RatingVeryPoor,
	})

	got, err := svc.Update(context.Background(), rec.ID, Patch{PointsAchieved: ptr(19)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Percentage != 95 || got.Rating != checklist.RatingExcellent {
		t.Fatalf("got %+v", got)
	}

	got, err = svc.Update(context.Background(), rec.ID, Patch{PointsAchieved: ptr(10), Rating: ptr("GOOD")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Percentage != 50 || got.Rating != checklist.RatingGood {
		t.Fatalf("explicit rating not kept: %+v", got)
	}
}

func TestUpdate_Validation(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := newTestService(repo)
	rec := repo.AddRecord(Inspection{FranchiseID: "f1", Date: "2024-05-01", Sector: "kitchen", TotalPoints: 20})

	bad := []Patch{
		{},
		{Sector: ptr("bar")},
		{Date: ptr("yesterday")},
		{PointsAchieved: ptr(25)},
		{Rating: ptr("AMAZING")},
		{Percentage: ptr(140.0)},
	}
	for _, p := range bad {
		if _, err := svc.Update(context.Background(), rec.ID, p); !errors.Is(err, ErrInvalid) {
			t.Errorf("%+v: expected ErrInvalid, got %v", p, err)
		}
	}
	if _, err := svc.Update(context.Background(), "missing", Patch{Sector: ptr("buffet")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestDuplicates(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	old := repo.AddRecord(Inspection{FranchiseID: "f1", Date: "2024-05-01", Sector: "kitchen"},
		ChecklistItem{Category: "Hygiene", ItemName: "Hands washed"})
	other := repo.AddRecord(Inspection{FranchiseID: "f1", Date: "2024-05-01", Sector: "buffet"})
	newer := repo.AddRecord(Inspection{FranchiseID: "f1", Date: "2024-05-01", Sector: "kitchen"})
	otherDay := repo.AddRecord(Inspection{FranchiseID: "f1", Date: "2024-05-02", Sector: "kitchen"})

	groups, err := svc.FindDuplicates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 || groups[0].KeepID != newer.ID || len(groups[0].RemoveIDs) != 1 || groups[0].RemoveIDs[0] != old.ID {
		t.Fatalf("groups %+v", groups)
	}

	_, n, err := svc.RemoveDuplicates(ctx)
	if err != nil || n != 1 {
		t.Fatalf("removed %d, %v", n, err)
	}
	if _, err := repo.Get(ctx, old.ID); !errors.Is(err, ErrNotFound) {
		t.Fatal("old record still present")
	}
	items, _ := repo.ListItems(ctx, []string{old.ID})
	if len(items) != 0 {
		t.Fatal("items of removed record still present")
	}
	for _, id := range []string{other.ID, newer.ID, otherDay.ID} {
		if _, err := repo.Get(ctx, id); err != nil {
			t.Fatalf("%s removed: %v", id, err)
		}
	}

	groups, n, _ = svc.RemoveDuplicates(ctx)
	if len(groups) != 0 || n != 0 {
		t.Fatalf("second pass removed %d", n)
	}
}

// --------------------------------------------------
// Handlers
// --------------------------------------------------

func setupInspectionRouter(svc *Service) *gin.Engine {
	return setupInspectionRouterAs(svc, "SUPERVISOR")
}

func setupInspectionRouterAs(svc *Service, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "token-user")
		c.Set("userRole", role)
		c.Next()
	})

	h := NewHandler(svc)
	r.GET("/checklist/sectors", h.Sectors)
	r.POST("/inspections", h.Submit)
	r.GET("/inspections", h.List)
	r.GET("/inspections/:id", h.Get)
	r.GET("/inspections/:id/unified", h.Unified)
	r.PATCH("/inspections/:id", h.Update)
	r.DELETE("/inspections/:id", h.Delete)
	r.POST("/admin/inspections/dedupe", h.Dedupe)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlers_SubmitAndUnified(t *testing.T) {
	repo := NewInMemoryRepository()
	r := setupInspectionRouter(newTestService(repo))

	req := kitchenRequest()
	req.InspectorID = ""
	w := doJSON(r, http.MethodPost, "/inspections", req)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", w.Code, w.Body)
	}

	var resp struct {
		Inspections []Inspection `json:"inspections"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Inspections) != 3 || resp.Inspections[0].InspectorID != "token-user" {
		t.Fatalf("resp %+v", resp)
	}

	w = doJSON(r, http.MethodGet, "/inspections/"+resp.Inspections[0].ID+"/unified", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unified: %d", w.Code)
	}
	var rep UnifiedReport
	_ = json.Unmarshal(w.Body.Bytes(), &rep)
	if rep.TotalPoints != 30 || rep.PointsAchieved != 15 {
		t.Fatalf("report %+v", rep)
	}

	w = doJSON(r, http.MethodGet, "/inspections?franchise_id=f1&from=2024-05-01&to=2024-05-01", nil)
	var list []Inspection
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if w.Code != http.StatusOK || len(list) != 3 {
		t.Fatalf("list: %d %d", w.Code, len(list))
	}

	w = doJSON(r, http.MethodGet, "/inspections/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get missing: %d", w.Code)
	}
}

func TestHandlers_SubmitFailureIsActionable(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.FailOn = func(ns NewSector) error {
		if ns.Inspection.Sector == "restrooms" {
			return errors.New("disk full")
		}
		return nil
	}
	r := setupInspectionRouter(newTestService(repo))

	w := doJSON(r, http.MethodPost, "/inspections", kitchenRequest())
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	var body struct {
		Error     string   `json:"error"`
		Sector    string   `json:"sector"`
		Committed []string `json:"committed"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Sector != "restrooms" || len(body.Committed) != 2 || !strings.Contains(body.Error, "restrooms") {
		t.Fatalf("body %+v", body)
	}
}

func TestHandlers_PatchDeleteDedupe(t *testing.T) {
	repo := NewInMemoryRepository()
	r := setupInspectionRouter(newTestService(repo))

	a := repo.AddRecord(Inspection{FranchiseID: "f1", Date: "2024-05-01", Sector: "kitchen", TotalPoints: 20})
	b := repo.AddRecord(Inspection{FranchiseID: "f1", Date: "2024-05-01", Sector: "kitchen", TotalPoints: 20})

	w := doJSON(r, http.MethodPatch, "/inspections/"+b.ID, map[string]any{"points_achieved": 20})
	if w.Code != http.StatusOK {
		t.Fatalf("patch: %d %s", w.Code, w.Body)
	}

	w = doJSON(r, http.MethodPost, "/admin/inspections/dedupe?dry_run=true", nil)
	var dry struct {
		Groups []DuplicateGroup `json:"groups"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &dry)
	if len(dry.Groups) != 1 {
		t.Fatalf("dry run %s", w.Body)
	}
	if _, err := repo.Get(context.Background(), a.ID); err != nil {
		t.Fatal("dry run deleted records")
	}

	w = doJSON(r, http.MethodPost, "/admin/inspections/dedupe", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dedupe: %d", w.Code)
	}
	if _, err := repo.Get(context.Background(), a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatal("duplicate kept")
	}

	w = doJSON(r, http.MethodDelete, "/inspections/"+b.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: %d", w.Code)
	}
	w = doJSON(r, http.MethodDelete, "/inspections/"+b.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("delete twice: %d", w.Code)
	}
}

func TestHandlers_SubmitInspectorFromToken(t *testing.T) {
	cases := []struct {
		role string
		body string
		want string
	}{
		{role: "SUPERVISOR", body: "someone-else", want: "token-user"},
		{role: "SUPERVISOR", body: "", want: "token-user"},
		{role: "ADMIN", body: "someone-else", want: "someone-else"},
		{role: "ADMIN", body: "", want: "token-user"},
	}

	for _, tc := range cases {
		r := setupInspectionRouterAs(newTestService(NewInMemoryRepository()), tc.role)

		req := kitchenRequest()
		req.InspectorID = tc.body
		w := doJSON(r, http.MethodPost, "/inspections", req)
		if w.Code != http.StatusCreated {
			t.Fatalf("%s/%q: submit %d %s", tc.role, tc.body, w.Code, w.Body)
		}

		var resp struct {
			Inspections []Inspection `json:"inspections"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		for _, in := range resp.Inspections {
			if in.InspectorID != tc.want {
				t.Fatalf("%s/%q: inspector %q, want %q", tc.role, tc.body, in.InspectorID, tc.want)
			}
		}
	}
}
