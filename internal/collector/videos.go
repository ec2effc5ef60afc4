package collector

// 视频没有上游，固定的三条 YouTube 嵌入链接
var predefinedVideos = []ContentItem{
	{
		Title:       "The Power of Believing That You Can Improve",
		Description: "Carol Dweck on the growth mindset and how praising effort changes what people achieve.",
		Type:        TypeVideo,
		URL:         "https://www.youtube.com/embed/_X0mgOOSpLU",
		Thumbnail:   "https://img.youtube.com/vi/_X0mgOOSpLU/hqdefault.jpg",
		PublishedAt: "2014-12-17T00:00:00Z",
	},
	{
		Title:       "Grit: The Power of Passion and Perseverance",
		Description: "Angela Lee Duckworth explains why grit predicts success better than talent.",
		Type:        TypeVideo,
		URL:         "https://www.youtube.com/embed/H14bBuluwB8",
		Thumbnail:   "https://img.youtube.com/vi/H14bBuluwB8/hqdefault.jpg",
		PublishedAt: "2013-05-09T00:00:00Z",
	},
	{
		Title:       "How Great Leaders Inspire Action",
		Description: "Simon Sinek's golden circle: start with why.",
		Type:        TypeVideo,
		URL:         "https://www.youtube.com/embed/qp0HIF3SfI4",
		Thumbnail:   "https://img.youtube.com/vi/qp0HIF3SfI4/hqdefault.jpg",
		PublishedAt: "2010-05-04T00:00:00Z",
	},
}

// Videos 返回预置视频的副本，调用方可以随意打乱
func Videos() []ContentItem {
	out := make([]ContentItem, len(predefinedVideos))
	copy(out, predefinedVideos)
	return out
}
