package handlers

import (
	"net/http"
)

// GetCoNLLDatasetHandler godoc
// @Summary Download the labeled dataset in CoNLL format
// @Tags dataset
// @Produce plain
// @Security BearerAuth
// @Success 200 {string} string "CoNLL dataset"
// @Failure 500 {string} string "Internal error"
// @Router /dataset/conll [get]
func GetCoNLLDatasetHandler(w http.ResponseWriter, r *http.Request) {
	out, err := dataset.CoNLL()
	if err != nil {
		http.Error(w, "could not build dataset", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="dataset.conll"`)
	w.Write(out)
}

// GetCSVDatasetHandler godoc
// @Summary Download the labeled dataset as token-per-row CSV
// @Tags dataset
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV dataset"
// @Failure 500 {string} string "Internal error"
// @Router /dataset/csv [get]
func GetCSVDatasetHandler(w http.ResponseWriter, r *http.Request) {
	out, err := dataset.CSV()
	if err != nil {
		http.Error(w, "could not build dataset", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="dataset.csv"`)
	w.Write(out)
}

// UploadDatasetHandler godoc
// @Summary Build the labeled dataset and upload it to object storage
// @Tags dataset
// @Produce json
// @Security BearerAuth
// @Param format query string false "Dataset format: conll (default) or csv"
// @Success 201 {object} UploadResult
// @Failure 400 {string} string "Invalid format"
// @Failure 500 {string} string "Internal error"
// @Failure 503 {string} string "Upload target not configured"
// @Router /dataset/upload [post]
func UploadDatasetHandler(w http.ResponseWriter, r *http.Request) {
	if uploader == nil {
		http.Error(w, "upload target not configured", http.StatusServiceUnavailable)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "conll"
	}

	var (
		out []byte
		err error
	)
	switch format {
	case "conll":
		out, err = dataset.CoNLL()
	case "csv":
		out, err = dataset.CSV()
	default:
		http.Error(w, "format must be conll or csv", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "could not build dataset", http.StatusInternalServerError)
		return
	}

	key, err := uploader.Upload(out, format)
	if err != nil {
		http.Error(w, "could not upload dataset", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, UploadResult{Key: key, Format: format})
}
