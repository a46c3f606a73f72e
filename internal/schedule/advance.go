package schedule

import "contas/internal/core"

// AdvanceUntilFuture steps currentDue forward by its frequency until the
// result is strictly after today. A due date equal to today is pushed to
// the next occurrence (the loop runs while next <= today). When currentDue
// already lies in the future it is returned unchanged, with zero steps.
//
// Used at obligation creation to skip occurrences between a user-chosen
// start date and now, and after a payment to compute the following due date.
func AdvanceUntilFuture(currentDue core.Date, freq core.Frequency, today core.Date) (core.Date, error) {
	adv, err := ForFrequency(freq)
	if err != nil {
		return core.Date{}, err
	}

	next := currentDue
	for !next.After(today) {
		next = adv.Next(next)
	}
	return next, nil
}

// AdvanceAfterPayment computes the due date that follows a payment of the
// occurrence at currentDue. Unlike AdvanceUntilFuture it always steps at
// least once, so paying ahead of schedule still rolls the due date to the
// following occurrence. Further catch-up steps apply when the obligation
// was overdue by more than one interval.
func AdvanceAfterPayment(currentDue core.Date, freq core.Frequency, today core.Date) (core.Date, error) {
	adv, err := ForFrequency(freq)
	if err != nil {
		return core.Date{}, err
	}

	next := adv.Next(currentDue)
	for !next.After(today) {
		next = adv.Next(next)
	}
	return next, nil
}
