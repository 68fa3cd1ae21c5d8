package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/adboard/adverts-service/internal/adapter/http/middleware"
	"github.com/adboard/adverts-service/internal/entity"
	"github.com/adboard/adverts-service/internal/platform/logger"
	"github.com/adboard/adverts-service/internal/usecase"
)

// maxUploadSize bounds multipart photo uploads.
const maxUploadSize = 10 << 20

type AdvertHandler struct {
	adverts *usecase.AdvertUseCase
	log     logger.Logger
	env     string
}

func NewAdvertHandler(adverts *usecase.AdvertUseCase, log logger.Logger, env string) *AdvertHandler {
	return &AdvertHandler{adverts: adverts, log: log, env: env}
}

type listResponse struct {
	Results      []*entity.Advert `json:"results"`
	OverallTotal int64            `json:"overall_total"`
}

// HandleList serves GET /api/{category}/adverts.
func (h *AdvertHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	category := entity.Category(chi.URLParam(r, "category"))
	if !category.Valid() {
		badRequest(w, "unknown category")
		return
	}

	q := r.URL.Query()
	// Both "sort" and the legacy "price" parameter select the price sort.
	sortParam := q.Get("sort")
	if sortParam == "" {
		sortParam = q.Get("price")
	}
	switch sortParam {
	case "price_asc":
		sortParam = usecase.SortCheap
	case "price_desc":
		sortParam = usecase.SortExpensive
	}

	results, total, err := h.adverts.ListByCategory(r.Context(), usecase.ListInput{
		Category: category,
		City:     q.Get("city"),
		Sort:     sortParam,
		PriceMin: parseFloat(q.Get("price_min")),
		PriceMax: parseFloat(q.Get("price_max")),
		Limit:    parseInt(q.Get("limit")),
		Offset:   parseInt(q.Get("offset")),
	})
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	if results == nil {
		results = []*entity.Advert{}
	}

	writeJSON(w, http.StatusOK, listResponse{Results: results, OverallTotal: total})
}

// HandleGetByID serves GET /api/adverts/{id}. The owner id is duplicated
// under the "user" key for older clients.
func (h *AdvertHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		badRequest(w, "incorrect id")
		return
	}

	advert, err := h.adverts.GetAdvert(r.Context(), id)
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}

	type advertWithUser struct {
		*entity.Advert
		User string `json:"user"`
	}
	writeJSON(w, http.StatusOK, advertWithUser{Advert: advert, User: advert.Owner})
}

// HandleCreate serves POST /api/{category}/create. The request is multipart
// with the advert fields as form values and the required main photo under
// "upload".
func (h *AdvertHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequest(w, "invalid multipart form")
		return
	}

	photoName, photoData, err := readFormFile(r, "upload")
	if err != nil {
		badRequest(w, "photo is required")
		return
	}

	advert := advertFromForm(r)

	created, err := h.adverts.CreateAdvert(r.Context(), usecase.CreateAdvertInput{
		OwnerID:   userID,
		Category:  entity.Category(chi.URLParam(r, "category")),
		Advert:    *advert,
		PhotoName: photoName,
		PhotoData: photoData,
	})
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// HandleEdit serves PUT /api/adverts/{id} with a partial JSON body.
func (h *AdvertHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		badRequest(w, "incorrect id")
		return
	}

	var patch entity.AdvertPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	advert, err := h.adverts.EditAdvert(r.Context(), id, patch)
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	writeJSON(w, http.StatusOK, advert)
}

// HandleDelete serves POST /api/adverts/delete/ad with {"id": N}.
func (h *AdvertHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := h.adverts.DeleteAdvert(r.Context(), body.ID); err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "advert deleted"})
}

// HandleAddPhoto serves POST /api/adverts/{id}/photos (multipart, "uploads").
func (h *AdvertHandler) HandleAddPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		badRequest(w, "incorrect id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequest(w, "invalid multipart form")
		return
	}

	fileName, data, err := readFormFile(r, "uploads")
	if err != nil {
		badRequest(w, "no file was provided")
		return
	}

	photo, err := h.adverts.AddGalleryPhoto(r.Context(), id, fileName, data)
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

// HandleRecentFeed serves GET /api/new.
func (h *AdvertHandler) HandleRecentFeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	feed, err := h.adverts.RecentFeed(r.Context(), parseInt(q.Get("limit")), parseInt(q.Get("offset")))
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

// HandleOwnerListings serves GET /api/my_ads for the authenticated user.
func (h *AdvertHandler) HandleOwnerListings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	listings, err := h.adverts.OwnerListings(r.Context(), userID)
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

// HandlePublicCount serves GET /api/count_ads.
func (h *AdvertHandler) HandlePublicCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.adverts.PublicCount(r.Context())
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	writeJSON(w, http.StatusOK, count)
}

// HandleCityDirectory serves GET /api/category/cities.
func (h *AdvertHandler) HandleCityDirectory(w http.ResponseWriter, r *http.Request) {
	directory, err := h.adverts.CityDirectory(r.Context())
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	writeJSON(w, http.StatusOK, directory)
}

// HandleMarkViewed serves POST /api/recom/view with {"id": N}.
func (h *AdvertHandler) HandleMarkViewed(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := h.adverts.MarkViewed(r.Context(), body.ID); err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}

// HandleRecommend serves GET /api/recom/post_recommend?category=&forId=.
func (h *AdvertHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := entity.Category(q.Get("category"))
	if !category.Valid() {
		badRequest(w, "unknown category")
		return
	}
	forID := parseInt(q.Get("forId"))

	recommendations, err := h.adverts.Recommend(r.Context(), category, forID)
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	if recommendations == nil {
		recommendations = []*entity.Advert{}
	}
	writeJSON(w, http.StatusOK, recommendations)
}

func readFormFile(r *http.Request, field string) (string, []byte, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}

// advertFromForm maps multipart form values onto an advert draft. Counters
// default to zero when absent.
func advertFromForm(r *http.Request) *entity.Advert {
	form := r.MultipartForm.Value
	get := func(key string) string {
		if vals, ok := form[key]; ok && len(vals) > 0 {
			return vals[0]
		}
		return ""
	}

	advert := &entity.Advert{
		Title:         get("title"),
		TitleEN:       get("title_en"),
		TitleRU:       get("title_ru"),
		TitleTR:       get("title_tr"),
		Description:   get("description"),
		DescriptionEN: get("description_en"),
		DescriptionRU: get("description_ru"),
		DescriptionTR: get("description_tr"),
		Price:         parseFloat(get("price")),
		Currency:      entity.Currency(get("currency")),
		Address:       get("address"),
		City:          get("city"),
		Geocode:       get("geocode"),
		Top:           parseInt(get("top")),
		Vip:           parseInt(get("vip")),
		Lifts:         parseInt(get("lifts")),
	}

	setString := func(key string, dst **string) {
		if v := get(key); v != "" {
			*dst = &v
		}
	}
	setString("type_sell", &advert.TypeSell)
	setString("rooms", &advert.Rooms)
	setString("condition", &advert.Condition)
	setString("brand", &advert.Brand)
	setString("model", &advert.Model)
	setString("gas", &advert.Gas)
	setString("employment", &advert.Employment)

	if v := get("square"); v != "" {
		f := parseFloat(v)
		advert.Square = &f
	}
	setIntField := func(key string, dst **int) {
		if v := get(key); v != "" {
			n := int(parseInt(v))
			*dst = &n
		}
	}
	setIntField("floor", &advert.Floor)
	setIntField("year", &advert.Year)
	setIntField("mileage", &advert.Mileage)

	setBoolField := func(key string, dst **bool) {
		if v := get(key); v != "" {
			b := v == "true" || v == "1"
			*dst = &b
		}
	}
	setBoolField("isMonth", &advert.IsMonth)
	setBoolField("transmission", &advert.Transmission)
	setBoolField("isUsed", &advert.IsUsed)
	setBoolField("workType", &advert.WorkType)

	return advert
}

func parseInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
