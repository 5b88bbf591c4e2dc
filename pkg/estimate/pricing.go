package estimate

const (
	DefaultEpochs          = 2
	DefaultTrainPricePer1K = 0.012
	DefaultInferPricePer1K = 0.008
)

// Pricing holds per-1K-token fine-tuning rates.
type Pricing struct {
	Epochs          int
	TrainPricePer1K float64
	InferPricePer1K float64
}

func DefaultPricing() Pricing {
	return Pricing{
		Epochs:          DefaultEpochs,
		TrainPricePer1K: DefaultTrainPricePer1K,
		InferPricePer1K: DefaultInferPricePer1K,
	}
}

// TrainCost is the cost of training on tokens for every epoch.
func (p Pricing) TrainCost(tokens int) float64 {
	return float64(tokens*p.Epochs) / 1000.0 * p.TrainPricePer1K
}

// InferCost is the cost of processing tokens once at inference rates.
func (p Pricing) InferCost(tokens int) float64 {
	return float64(tokens) / 1000.0 * p.InferPricePer1K
}
