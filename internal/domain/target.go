package domain

// Target is a monitored advertiser page and the partition its ads live in
type Target struct {
	URL       string
	Partition string
}
