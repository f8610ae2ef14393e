package alttester

import (
	"context"
	"errors"

	"lyra_automation/domain/entities"
	"lyra_automation/domain/interfaces"
)

// object is an AltTester object handle
type object struct {
	driver *Driver
	info   entities.ObjectInfo
}

func (o *object) Info() entities.ObjectInfo {
	return o.info
}

func (o *object) Enabled() bool {
	return o.info.Enabled
}

func (o *object) GetText(ctx context.Context) (string, error) {
	var text string
	if err := o.driver.conn.call(ctx, cmdGetText, &objectParams{AltObject: o.info}, &text); err != nil {
		return "", err
	}
	return text, nil
}

func (o *object) Click(ctx context.Context) error {
	params := &tapElementParams{AltObject: o.info, Count: 1, Interval: 0.1, Wait: true}
	var updated entities.ObjectInfo
	return o.driver.conn.callAndWait(ctx, cmdTapElement, params, &updated, ackFinished)
}

// ScreenPosition refreshes the object; an object the server no longer finds
// is reported as not visible
func (o *object) ScreenPosition(ctx context.Context) (entities.Vector2, bool, error) {
	var updated entities.ObjectInfo
	err := o.driver.conn.call(ctx, cmdUpdateObject, &objectParams{AltObject: o.info}, &updated)
	if errors.Is(err, interfaces.ErrObjectNotFound) {
		return entities.Vector2{}, false, nil
	}
	if err != nil {
		return entities.Vector2{}, false, err
	}
	o.info = updated
	return updated.ScreenPosition(), true, nil
}

var _ interfaces.GameObject = (*object)(nil)
