package handlers

import (
	"database/sql"

	intconfig "intercity/internal/config"
	"intercity/internal/events"
	"intercity/internal/http/middleware"
	"intercity/internal/ranking"
	"intercity/internal/repositories"
	"intercity/internal/services"
	"intercity/internal/session"

	"github.com/gin-gonic/gin"
)

// Deps are the process-wide collaborators handlers build services from.
type Deps struct {
	DB              *sql.DB
	Ranker          *ranking.Ranker
	Events          events.Publisher
	Signer          *session.Signer
	SuggestionLimit int
	MinSimilarity   *float64
}

func (d *Deps) db() *sql.DB {
	if d.DB != nil {
		return d.DB
	}
	return intconfig.DB
}

func (d *Deps) bookingService(c *gin.Context) services.BookingService {
	db := d.db()
	return services.BookingService{
		DB:          db,
		BusRepo:     repositories.BusRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
		PaymentRepo: repositories.PaymentRepository{DB: db},
		Events:      d.Events,
		RequestID:   middleware.GetRequestID(c),
	}
}

func (d *Deps) suggestionService(c *gin.Context) services.SuggestionService {
	var source services.CandidateSource
	if db := d.db(); db != nil {
		source = repositories.DestinationRepository{DB: db}
	}
	return services.SuggestionService{
		Candidates:    source,
		Ranker:        d.Ranker,
		TopK:          d.SuggestionLimit,
		MinSimilarity: d.MinSimilarity,
		RequestID:     middleware.GetRequestID(c),
	}
}

func (d *Deps) busService(c *gin.Context) services.BusService {
	db := d.db()
	return services.BusService{
		BusRepo:         repositories.BusRepository{DB: db},
		DestinationRepo: repositories.DestinationRepository{DB: db},
		SearchLogRepo:   repositories.SearchLogRepository{DB: db},
		RequestID:       middleware.GetRequestID(c),
	}
}

func (d *Deps) historyService(c *gin.Context) services.HistoryService {
	return services.HistoryService{
		BookingRepo: repositories.BookingRepository{DB: d.db()},
		RequestID:   middleware.GetRequestID(c),
	}
}

func (d *Deps) docsService(c *gin.Context) services.DocsService {
	return services.DocsService{
		Bookings:  d.bookingService(c),
		RequestID: middleware.GetRequestID(c),
	}
}

func (d *Deps) sessionService(c *gin.Context) services.SessionService {
	return services.SessionService{Signer: d.Signer, RequestID: middleware.GetRequestID(c)}
}

func (d *Deps) feedbackService(c *gin.Context) services.FeedbackService {
	return services.FeedbackService{
		Repo:      repositories.FeedbackRepository{DB: d.db()},
		RequestID: middleware.GetRequestID(c),
	}
}
