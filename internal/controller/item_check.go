package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/timmy/arbitrage/internal/domain"
	"github.com/timmy/arbitrage/internal/gateway"
	"github.com/timmy/arbitrage/internal/logger"
	"github.com/timmy/arbitrage/internal/notify"
)

const (
	MsgItemAnalyzed    = "Item analyzed successfully!"
	MsgItemCheckFailed = "Failed to analyze item. Please try again."
)

// CheckItem analyzes a single item and shows the result. It is a plain
// request/response call and never touches the active job.
func (c *Controller) CheckItem(ctx context.Context, req domain.ItemCheckRequest) (*domain.ItemCheckResult, error) {
	if c.closed() {
		return nil, ErrClosed
	}

	req.Title = strings.TrimSpace(req.Title)
	req.ItemNumber = strings.TrimSpace(req.ItemNumber)
	req.Notes = strings.TrimSpace(req.Notes)
	if req.Quantity < 1 {
		req.Quantity = c.defaultQuantity
	}
	if err := c.validate(req); err != nil {
		c.notify(notify.KindError, err.(*ValidationError).Message)
		return nil, err
	}

	ctx = logger.SetComponent(ctx, "item_check")
	res, err := c.gw.CheckItem(ctx, req)
	if err != nil {
		logger.CtxWarn(ctx, "Item check failed: %v", err)
		msg, ok := gateway.UserMessage(err)
		if !ok {
			msg = MsgItemCheckFailed
		}
		c.notify(notify.KindError, msg)
		return nil, fmt.Errorf("check item: %w", err)
	}

	c.store.Dispatch(ItemChecked{Result: res})
	logger.CtxInfo(ctx, "Item analyzed: title=%q, msrp=%.2f, quantity=%d", req.Title, req.MSRP, req.Quantity)
	c.notify(notify.KindSuccess, MsgItemAnalyzed)
	return res, nil
}
