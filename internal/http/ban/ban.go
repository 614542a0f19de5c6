// Package ban tracks rate-limit strikes per client and alerts on bans.
package ban

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/redissvc"
)

var (
	alertFrom        = os.Getenv("ALERT_FROM")
	alertTo          = os.Getenv("ALERT_TO")
	smtpServer       = os.Getenv("SMTP_SERVER")
	smtpPort         = os.Getenv("SMTP_PORT")
	smtpUser         = os.Getenv("SMTP_USER")
	smtpPassword     = os.Getenv("SMTP_PASS")
	smtpAuthDisabled = os.Getenv("SMTP_AUTH_DISABLED")

	rdb *redis.Client
	ctx context.Context

	banStrikes = 20
)

func SetRedisService(rs *redissvc.RedisService) {
	rdb = rs.Rdb()
	ctx = rs.Ctx()
}

// SetBanStrikes sets how many rate-limit strikes ban a client.
func SetBanStrikes(n int) {
	if n > 0 {
		banStrikes = n
	}
}

const (
	strikeKeyPrefix = "ratelimit:strikes:"
	banKeyPrefix    = "ratelimit:banned:"
	DailyBanLogKey  = "ratelimit:banlog:daily"
)

// RecordStrike bumps the strike counter for the client and bans it when
// the limit is reached. Returns whether the client is now banned.
func RecordStrike(clientID, route string) bool {
	if rdb == nil {
		return false
	}
	strikes, err := rdb.Incr(ctx, strikeKeyPrefix+clientID).Result()
	if err != nil {
		log.Printf("Failed to record strike for %s: %v", clientID, err)
		return false
	}
	rdb.Expire(ctx, strikeKeyPrefix+clientID, time.Hour)

	if int(strikes) < banStrikes {
		return false
	}
	if err := rdb.Set(ctx, banKeyPrefix+clientID, 1, 24*time.Hour).Err(); err != nil {
		log.Printf("Failed to ban %s: %v", clientID, err)
	}
	_ = SendBanAlertEmail(clientID, route, int(strikes))
	return true
}

// IsBanned reports whether the client is currently banned.
func IsBanned(clientID string) bool {
	if rdb == nil {
		return false
	}
	exists, err := rdb.Exists(ctx, banKeyPrefix+clientID).Result()
	return err == nil && exists > 0
}

func SendBanAlertEmail(bannedID string, route string, strikes int) error {
	subject := fmt.Sprintf("BAN ALERT: %s blocked", bannedID)
	body := fmt.Sprintf("Target: %s\nRoute: %s\nStrikes: %d\nTime: %s",
		bannedID, route, strikes, time.Now().Format(time.RFC3339))

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", alertFrom, alertTo, subject, body)

	addr := fmt.Sprintf("%s:%s", smtpServer, smtpPort)
	auth := smtp.PlainAuth("", smtpUser, smtpPassword, smtpServer)

	if smtpAuthDisabled != "" {
		auth = nil
	}

	go func() {
		if smtpServer == "" {
			return
		}
		err := smtp.SendMail(addr, auth, alertFrom, []string{alertTo}, []byte(msg))
		if err != nil {
			log.Printf("Failed to send alert email: %v", err)
		}
	}()

	logBanEvent(bannedID, route, strikes)

	return nil
}

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

func logBanEvent(target, route string, strikes int) {
	entry := BanLogEntry{
		Target:  target,
		Route:   route,
		Strikes: strikes,
		Time:    time.Now(),
	}
	data, _ := json.Marshal(entry)
	_ = rdb.RPush(ctx, DailyBanLogKey, data).Err()
}

// StartDailyBanSummary periodically emails the accumulated ban log and
// clears it.
func StartDailyBanSummary(interval time.Duration) {
	for {
		time.Sleep(interval)
		sendDailySummary()
	}
}

func sendDailySummary() {
	if rdb == nil {
		return
	}
	entries, err := rdb.LRange(ctx, DailyBanLogKey, 0, -1).Result()
	if err != nil || len(entries) == 0 {
		return
	}

	body := fmt.Sprintf("Ban summary (%d events):\n\n", len(entries))
	for _, raw := range entries {
		var e BanLogEntry
		if json.Unmarshal([]byte(raw), &e) == nil {
			body += fmt.Sprintf("%s banned on %s after %d strikes at %s\n",
				e.Target, e.Route, e.Strikes, e.Time.Format(time.RFC3339))
		}
	}

	if smtpServer != "" {
		msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Daily ban summary\r\n\r\n%s", alertFrom, alertTo, body)
		addr := fmt.Sprintf("%s:%s", smtpServer, smtpPort)
		auth := smtp.PlainAuth("", smtpUser, smtpPassword, smtpServer)
		if smtpAuthDisabled != "" {
			auth = nil
		}
		if err := smtp.SendMail(addr, auth, alertFrom, []string{alertTo}, []byte(msg)); err != nil {
			log.Printf("Failed to send daily ban summary: %v", err)
		}
	}

	_ = rdb.Del(ctx, DailyBanLogKey).Err()
}
