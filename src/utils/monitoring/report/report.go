package report

type Report struct {
	Run            *RunReport            `json:"run,omitempty"`
	Gallery        *GalleryReport        `json:"gallery,omitempty"`
	Journal        *JournalReport        `json:"journal,omitempty"`
	RedisPublisher *RedisPublisherReport `json:"redis_publisher,omitempty"`
	Gateway        *GatewayReport        `json:"gateway,omitempty"`
}
