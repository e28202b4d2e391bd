package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gamenight/schnapsen-client/internal/client"
	"github.com/gamenight/schnapsen-client/internal/config"
	"github.com/gamenight/schnapsen-client/internal/logger"
	"github.com/gamenight/schnapsen-client/internal/network/matchmaker"
	"github.com/gamenight/schnapsen-client/internal/protocol"
	"github.com/gamenight/schnapsen-client/internal/stats"
)

// bot is a random-legal player: it draws when allowed, declares the first
// announceable offer when allowed, and plays a random playable card after
// a short think time. Exists to exercise the client end to end against a
// live server, one goroutine per concurrent match.
type bot struct {
	index    int
	userID   string
	cfg      *config.Config
	recorder *stats.Recorder

	done     chan struct{}
	doneOnce sync.Once
}

func newBot(index int, userID string, cfg *config.Config, recorder *stats.Recorder) *bot {
	return &bot{
		index:    index,
		userID:   userID,
		cfg:      cfg,
		recorder: recorder,
		done:     make(chan struct{}),
	}
}

func (b *bot) run(ctx context.Context) error {
	mm := matchmaker.New(b.cfg.Matchmaker.URL, b.userID, b.cfg.Matchmaker.SessionToken)
	match, conn, err := mm.Search(ctx, matchmaker.SearchInfo{
		Region: b.cfg.Matchmaker.Region,
		Game:   b.cfg.Matchmaker.Game,
		Mode:   b.cfg.Matchmaker.Mode,
		AI:     b.cfg.Matchmaker.AI,
	})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	fmt.Printf("client %d: match %s found\n", b.index, match.ID)

	// The shared debug log has no per-connection attribution; tag every
	// frame with the client index before the projector handles it.
	conn.OnAny(func(msg *protocol.Message) {
		logger.LogInfo("client %d: frame %s", b.index, msg.Event)
	})

	c := client.Builder{}.FromMatch(b.userID, match, conn)
	b.wire(ctx, c)
	conn.Start()

	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		c.Disconnect()
		return ctx.Err()
	}
}

func (b *bot) wire(ctx context.Context, c *client.Client) {
	c.On(client.EventSelfAllowDrawCard, func(any) {
		if err := c.DrawCard(); err != nil {
			logger.LogError("client %d: draw: %v", b.index, err)
		}
	})

	c.On(client.EventSelfAllowPlayCard, func(any) {
		go b.playRandom(ctx, c)
	})

	c.On(client.EventSelfAllowAnnounce, func(any) {
		go b.announceFirst(ctx, c)
	})

	c.On(client.EventTimeout, func(payload any) {
		timeout := payload.(protocol.TimeoutPayload)
		fmt.Printf("client %d: timeout by %s (%s)\n", b.index, timeout.UserID, timeout.Reason)
	})

	c.On(client.EventRoundResult, func(payload any) {
		result := payload.(protocol.RoundResultPayload)
		fmt.Printf("client %d: round won by %s\n", b.index, result.Winner)
		b.recordRound(ctx, result, c.UserID())
		c.Disconnect()
		b.doneOnce.Do(func() { close(b.done) })
	})

	c.On(client.EventFinalResult, func(payload any) {
		result := payload.(protocol.FinalResultPayload)
		b.recordMatch(ctx, result, c.UserID())
	})
}

// playRandom plays a random playable card after the configured think
// time. Runs off the event pipeline; the guard may have been withdrawn by
// the time the think is over, so it is rechecked.
func (b *bot) playRandom(ctx context.Context, c *client.Client) {
	select {
	case <-time.After(b.cfg.Bot.ThinkTimeDuration()):
	case <-ctx.Done():
		return
	}

	if !c.AllowPlayCard() {
		return
	}

	playable := c.PlayableCards()
	if len(playable) == 0 {
		return
	}

	pick := playable[rand.IntN(len(playable))]
	if err := c.PlayCard(pick); err != nil {
		logger.LogError("client %d: play %s: %v", b.index, pick, err)
	}
}

// announceFirst declares the first announceable offer, then plays.
func (b *bot) announceFirst(ctx context.Context, c *client.Client) {
	offers := c.Announceable()
	if len(offers) == 0 {
		return
	}

	var err error
	if offers[0].Kind == protocol.AnnounceForty {
		err = c.Announce40()
	} else {
		err = c.Announce20(offers[0].Cards[:])
	}
	if err != nil {
		logger.LogError("client %d: announce: %v", b.index, err)
		return
	}

	if err := c.WaitPlayAllowed(ctx); err != nil {
		return
	}
	playable := c.PlayableCards()
	if len(playable) > 0 {
		if err := c.PlayCard(playable[0]); err != nil {
			logger.LogError("client %d: play after announce: %v", b.index, err)
		}
	}
}

func (b *bot) recordRound(ctx context.Context, result protocol.RoundResultPayload, selfID string) {
	if b.recorder == nil {
		return
	}
	won := result.Winner == selfID
	if err := b.recorder.RecordRound(ctx, selfID, won, result.Points); err != nil {
		logger.LogError("client %d: record round: %v", b.index, err)
	}
}

func (b *bot) recordMatch(ctx context.Context, result protocol.FinalResultPayload, selfID string) {
	if b.recorder == nil {
		return
	}
	won := result.Winner == selfID
	if err := b.recorder.RecordMatch(ctx, selfID, won); err != nil {
		logger.LogError("client %d: record match: %v", b.index, err)
	}
}
