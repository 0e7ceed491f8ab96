package common

const (
	TopicPurchaseSettled = "purchase_settled"
)
