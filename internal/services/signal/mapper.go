package signal

import "SignalAPI/internal/domain/models"

// Mapper turns a model probability into a label.
type Mapper interface {
	Map(p float64) models.Label
}

// TwoClass answers BUY at or above Buy and WAIT below it.
type TwoClass struct {
	Buy float64
}

func (m TwoClass) Map(p float64) models.Label {
	if p >= m.Buy {
		return models.LabelBuy
	}
	return models.LabelWait
}

// ThreeClass answers BUY strictly above Buy, SELL strictly below Sell and
// HOLD in between, boundaries included.
type ThreeClass struct {
	Buy  float64
	Sell float64
}

func (m ThreeClass) Map(p float64) models.Label {
	switch {
	case p > m.Buy:
		return models.LabelBuy
	case p < m.Sell:
		return models.LabelSell
	default:
		return models.LabelHold
	}
}
