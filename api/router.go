package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/mailflow/mailq/auth"
	"github.com/mailflow/mailq/common"
	"github.com/mailflow/mailq/services"
)

type Router struct {
	queuesService     *services.QueuesService
	messagesService   *services.MessagesService
	monitoringService *services.MonitoringService
	validator         auth.Validator
}

func NewRouter(
	queuesService *services.QueuesService,
	messagesService *services.MessagesService,
	monitoringService *services.MonitoringService,
	validator auth.Validator,
) *Router {
	return &Router{
		queuesService:     queuesService,
		messagesService:   messagesService,
		monitoringService: monitoringService,
		validator:         validator,
	}
}

func (ar *Router) NewRouter() *chi.Mux {
	router := chi.NewRouter()

	router.Use(tracing)
	router.Use(recoverer)

	router.Get("/healthcheck", ar.healthcheck)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(bearerTokenAuth(ar.validator))

		r.Route("/queues", func(r chi.Router) {
			r.Get("/", ar.listQueues)

			r.Route("/{queue}", func(r chi.Router) {
				r.Get("/messages", ar.listMessages)
				r.Delete("/messages", ar.deleteMessage)
				r.Post("/purge", ar.purgeQueue)
				r.Post("/redrive", ar.redriveMessage)
			})
		})
	})

	return router
}

func (ar *Router) listQueues(w http.ResponseWriter, req *http.Request) {
	queues, err := ar.queuesService.ListQueues(req.Context())
	if err != nil {
		sendResponseFromError(w, err)
		return
	}
	sendJsonResponse(w, http.StatusOK, queues)
}

func (ar *Router) listMessages(w http.ResponseWriter, req *http.Request) {
	queueName := chi.URLParam(req, "queue")

	var limit int32
	if rawLimit := req.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.ParseInt(rawLimit, 10, 32)
		if err != nil {
			sendApiError(w, common.BadRequestError("limit must be an integer"))
			return
		}
		limit = int32(parsed)
	}

	messages, err := ar.messagesService.ListMessages(queueName, limit, req.Context())
	if err != nil {
		sendResponseFromError(w, err)
		return
	}
	sendJsonResponse(w, http.StatusOK, messages)
}

func (ar *Router) purgeQueue(w http.ResponseWriter, req *http.Request) {
	queueName := chi.URLParam(req, "queue")

	result, err := ar.queuesService.PurgeQueue(queueName, req.Context())
	if err != nil {
		sendResponseFromError(w, err)
		return
	}
	sendJsonResponse(w, http.StatusOK, result)
}

func (ar *Router) deleteMessage(w http.ResponseWriter, req *http.Request) {
	queueName := chi.URLParam(req, "queue")

	var deleteRequest common.DeleteMessageRequest
	if err := json.NewDecoder(req.Body).Decode(&deleteRequest); err != nil {
		log.Error().Err(err).Msg("failed to decode delete message request body")
		sendApiError(w, common.BadRequestError("invalid request body"))
		return
	}
	if deleteRequest.ReceiptHandle == "" {
		sendApiError(w, common.ValidationError("receiptHandle is required"))
		return
	}

	result, err := ar.queuesService.DeleteMessage(queueName, deleteRequest.ReceiptHandle, req.Context())
	if err != nil {
		sendResponseFromError(w, err)
		return
	}
	sendJsonResponse(w, http.StatusOK, result)
}

func (ar *Router) redriveMessage(w http.ResponseWriter, req *http.Request) {
	queueName := chi.URLParam(req, "queue")

	var redriveRequest common.RedriveMessageRequest
	if err := json.NewDecoder(req.Body).Decode(&redriveRequest); err != nil {
		log.Error().Err(err).Msg("failed to decode redrive message request body")
		sendApiError(w, common.BadRequestError("invalid request body"))
		return
	}
	if redriveRequest.ReceiptHandle == "" {
		sendApiError(w, common.ValidationError("receiptHandle is required"))
		return
	}
	if redriveRequest.TargetQueueName == "" {
		sendApiError(w, common.ValidationError("targetQueueName is required"))
		return
	}

	result, err := ar.queuesService.RedriveMessage(queueName, redriveRequest, req.Context())
	if err != nil {
		sendResponseFromError(w, err)
		return
	}
	sendJsonResponse(w, http.StatusOK, result)
}

func (ar *Router) healthcheck(w http.ResponseWriter, req *http.Request) {
	if !ar.monitoringService.IsHealthy(req.Context()) {
		sendApiError(w, common.ServiceUnavailableError("queue backend is unreachable"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func sendJsonResponse(w http.ResponseWriter, httpCode int, payload interface{}) {
	respBody, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("error marshaling response body")
		sendApiError(w, common.InternalError("error marshaling response body"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	w.Write(respBody)
}

// sendApiError is the single point where the error taxonomy becomes an HTTP
// response. Internal and backend details are logged here and never leaked.
func sendApiError(w http.ResponseWriter, apiErr *common.ApiError) {
	if apiErr.Kind == common.KindInternal || apiErr.Kind == common.KindBackend {
		log.Error().Str("code", apiErr.Kind.Code()).Msg(apiErr.Message)
	}

	respBody, err := json.Marshal(common.ErrorResponse{
		Error:     apiErr.PublicMessage(),
		Code:      apiErr.Kind.Code(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Error().Err(err).Msg("error marshaling error response body")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Kind.HttpStatus())
	w.Write(respBody)
}

func sendResponseFromError(w http.ResponseWriter, err error) {
	var apiErr *common.ApiError
	if errors.As(err, &apiErr) {
		sendApiError(w, apiErr)
		return
	}
	sendApiError(w, common.InternalError(err.Error()))
}
