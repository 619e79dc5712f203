package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/form/v4"

	phttp "github.com/gaqzi/review-service/internal/platform/http"
	"github.com/gaqzi/review-service/internal/platform/validate"
	"github.com/gaqzi/review-service/internal/reviewing"
)

const msgMalformedBody = "Request body must be a JSON object with rating, title and comment"

// Service is what the handler needs from reviewing.Service.
type Service interface {
	AddReview(ctx context.Context, content reviewing.Content) (reviewing.Review, error)
	ListReviews(ctx context.Context) (reviewing.ReviewList, error)
	GetReview(ctx context.Context, id string) (reviewing.Review, error)
	DeleteReview(ctx context.Context, id string) error
	Summarize(ctx context.Context) (reviewing.Summary, error)
}

type App struct {
	decoder *form.Decoder
	service Service
}

func Handler(service Service) func(chi.Router) {
	app := App{
		decoder: form.NewDecoder(),
		service: service,
	}

	return func(r chi.Router) {
		r.Get("/", app.Index)
		r.Post("/", app.Create)
		r.Get("/summary", app.Summary)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.Show)
			r.Delete("/", app.Delete)
		})
	}
}

type ReviewResponse struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(r reviewing.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID(),
		Rating:    r.Rating(),
		Title:     r.Title(),
		Comment:   r.Comment(),
		CreatedAt: r.CreatedAt(),
	}
}

type createRequest struct {
	// Rating is decoded by hand so a fractional or non-numeric rating is reported
	// by the rating rule instead of as a broken body.
	Rating  json.RawMessage `json:"rating"`
	Title   string          `json:"title"`
	Comment string          `json:"comment"`
}

// content accepts any whole number for the rating, 5.0 and 5e0 included.
// Everything else becomes 0, which the rating rule rejects.
func (c createRequest) content() reviewing.Content {
	var rating int
	var f float64
	if err := json.Unmarshal(c.Rating, &f); err == nil && f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
		rating = int(f)
	}

	return reviewing.Content{Rating: rating, Title: c.Title, Comment: c.Comment}
}

func (a *App) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		httplog.LogEntry(r.Context()).Info("failed to decode review", "error", err)
		phttp.WriteErrors(w, http.StatusBadRequest, msgMalformedBody)
		return
	}
	// Only one object is allowed in the body.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		httplog.LogEntry(r.Context()).Info("trailing data after review", "error", err)
		phttp.WriteErrors(w, http.StatusBadRequest, msgMalformedBody)
		return
	}

	review, err := a.service.AddReview(r.Context(), req.content())
	if err != nil {
		a.writeFailure(w, r, "failed to add review", err)
		return
	}

	phttp.WriteJSON(w, http.StatusCreated, map[string]ReviewResponse{"review": toResponse(review)})
}

type listQuery struct {
	Sort  string `form:"sort" validate:"omitempty,oneof=date rating"`
	Order string `form:"order" validate:"omitempty,oneof=asc desc"`
}

func (q listQuery) apply(reviews []reviewing.Review) []reviewing.Review {
	order := reviewing.Descending
	if q.Order == "asc" {
		order = reviewing.Ascending
	}

	switch q.Sort {
	case "date":
		return reviewing.SortByDate(reviews, order)
	case "rating":
		return reviewing.SortByRating(reviews, order)
	default:
		return reviews
	}
}

type ListResponse struct {
	Reviews    []ReviewResponse `json:"reviews"`
	TotalCount int              `json:"totalCount"`
}

func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	var q listQuery
	if err := a.decoder.Decode(&q, r.URL.Query()); err != nil {
		phttp.WriteErrors(w, http.StatusBadRequest, "Query could not be decoded")
		return
	}
	if msgs := queryErrors(r.Context(), q); len(msgs) > 0 {
		phttp.WriteErrors(w, http.StatusBadRequest, msgs...)
		return
	}

	list, err := a.service.ListReviews(r.Context())
	if err != nil {
		a.writeFailure(w, r, "failed to list reviews", err)
		return
	}

	resp := ListResponse{Reviews: make([]ReviewResponse, 0, len(list.Reviews)), TotalCount: list.TotalCount}
	for _, review := range q.apply(list.Reviews) {
		resp.Reviews = append(resp.Reviews, toResponse(review))
	}

	phttp.WriteJSON(w, http.StatusOK, resp)
}

func queryErrors(ctx context.Context, q listQuery) []string {
	fields, err := validate.FailedFields(validate.Struct(ctx, q))
	if err != nil {
		return []string{err.Error()}
	}

	var msgs []string
	if slices.Contains(fields, "Sort") {
		msgs = append(msgs, "Sort must be one of: date, rating")
	}
	if slices.Contains(fields, "Order") {
		msgs = append(msgs, "Order must be one of: asc, desc")
	}

	return msgs
}

type SummaryResponse struct {
	TotalCount    int         `json:"totalCount"`
	AverageRating float64     `json:"averageRating"`
	CountByRating map[int]int `json:"countByRating"`
}

func (a *App) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.service.Summarize(r.Context())
	if err != nil {
		a.writeFailure(w, r, "failed to summarize reviews", err)
		return
	}

	phttp.WriteJSON(w, http.StatusOK, SummaryResponse{
		TotalCount:    summary.TotalCount,
		AverageRating: summary.AverageRating,
		CountByRating: summary.CountByRating,
	})
}

func (a *App) Show(w http.ResponseWriter, r *http.Request) {
	review, err := a.service.GetReview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeFailure(w, r, "failed to get review", err)
		return
	}

	phttp.WriteJSON(w, http.StatusOK, map[string]ReviewResponse{"review": toResponse(review)})
}

func (a *App) Delete(w http.ResponseWriter, r *http.Request) {
	if err := a.service.DeleteReview(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.writeFailure(w, r, "failed to delete review", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *App) writeFailure(w http.ResponseWriter, r *http.Request, msg string, err error) {
	failure, ok := reviewing.AsFailure(err)
	if !ok {
		failure = &reviewing.Failure{Kind: reviewing.KindInternal, Messages: []string{err.Error()}, Err: err}
	}

	status := statusFor(failure.Kind)
	if status >= http.StatusInternalServerError {
		httplog.LogEntry(r.Context()).Error(msg, "error", err, "kind", failure.Kind.String())
	}

	phttp.WriteErrors(w, status, failure.Messages...)
}

func statusFor(kind reviewing.Kind) int {
	switch kind {
	case reviewing.KindValidationFailed:
		return http.StatusBadRequest
	case reviewing.KindConflictExists:
		return http.StatusConflict
	case reviewing.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
