package catalog

import (
	"github.com/vinyl-next/internal/models"
)

// Album 内置目录条目
type Album struct {
	ID       string
	Title    string
	Artist   string
	Price    float64
	ImageURL string
	Genre    string
}

// builtinAlbums 内置黑胶唱片目录，定价服务不可用时的兜底数据源
var builtinAlbums = []Album{
	{ID: "1", Title: "Abbey Road", Artist: "The Beatles", Price: 29.99, ImageURL: "https://via.placeholder.com/600/4169E1/FFFFFF?text=Abbey+Road", Genre: "rock"},
	{ID: "2", Title: "Sgt. Pepper's Lonely Hearts Club Band", Artist: "The Beatles", Price: 32.99, ImageURL: "https://via.placeholder.com/600/4169E1/FFFFFF?text=Sgt.+Pepper", Genre: "rock"},
	{ID: "3", Title: "The White Album", Artist: "The Beatles", Price: 39.99, ImageURL: "https://via.placeholder.com/600/FFFFFF/000000?text=White+Album", Genre: "rock"},
	{ID: "4", Title: "Revolver", Artist: "The Beatles", Price: 28.99, ImageURL: "https://via.placeholder.com/600/FF6B6B/FFFFFF?text=Revolver", Genre: "rock"},
	{ID: "5", Title: "The Dark Side of the Moon", Artist: "Pink Floyd", Price: 34.99, ImageURL: "https://via.placeholder.com/600/000000/FFFFFF?text=Dark+Side+Moon", Genre: "progressive"},
	{ID: "6", Title: "The Wall", Artist: "Pink Floyd", Price: 44.99, ImageURL: "https://via.placeholder.com/600/FFA500/000000?text=The+Wall", Genre: "progressive"},
	{ID: "7", Title: "Wish You Were Here", Artist: "Pink Floyd", Price: 31.99, ImageURL: "https://via.placeholder.com/600/FFD700/000000?text=Wish+You+Were+Here", Genre: "progressive"},
	{ID: "8", Title: "Led Zeppelin IV", Artist: "Led Zeppelin", Price: 32.99, ImageURL: "https://via.placeholder.com/600/8B4513/FFFFFF?text=Led+Zeppelin+IV", Genre: "rock"},
	{ID: "9", Title: "Physical Graffiti", Artist: "Led Zeppelin", Price: 38.99, ImageURL: "https://via.placeholder.com/600/696969/FFFFFF?text=Physical+Graffiti", Genre: "rock"},
	{ID: "10", Title: "A Night at the Opera", Artist: "Queen", Price: 31.99, ImageURL: "https://via.placeholder.com/600/DC143C/FFFFFF?text=Night+at+Opera", Genre: "rock"},
	{ID: "11", Title: "News of the World", Artist: "Queen", Price: 29.99, ImageURL: "https://via.placeholder.com/600/C71585/FFFFFF?text=News+World", Genre: "rock"},
	{ID: "12", Title: "Sticky Fingers", Artist: "The Rolling Stones", Price: 33.99, ImageURL: "https://via.placeholder.com/600/FF4500/FFFFFF?text=Sticky+Fingers", Genre: "rock"},
	{ID: "13", Title: "Exile on Main St.", Artist: "The Rolling Stones", Price: 39.99, ImageURL: "https://via.placeholder.com/600/2F4F4F/FFFFFF?text=Exile+Main+St", Genre: "rock"},
	{ID: "14", Title: "The Doors", Artist: "The Doors", Price: 27.99, ImageURL: "https://via.placeholder.com/600/9932CC/FFFFFF?text=The+Doors", Genre: "rock"},
	{ID: "15", Title: "Back in Black", Artist: "AC/DC", Price: 30.99, ImageURL: "https://via.placeholder.com/600/000000/FFFFFF?text=Back+in+Black", Genre: "rock"},
	{ID: "16", Title: "Paranoid", Artist: "Black Sabbath", Price: 28.99, ImageURL: "https://via.placeholder.com/600/808080/FFFFFF?text=Paranoid", Genre: "rock"},
	{ID: "17", Title: "The Rise and Fall of Ziggy Stardust", Artist: "David Bowie", Price: 32.99, ImageURL: "https://via.placeholder.com/600/FF1493/FFFFFF?text=Ziggy+Stardust", Genre: "rock"},
	{ID: "18", Title: "Highway 61 Revisited", Artist: "Bob Dylan", Price: 29.99, ImageURL: "https://via.placeholder.com/600/DEB887/000000?text=Highway+61", Genre: "rock"},
	{ID: "19", Title: "Tommy", Artist: "The Who", Price: 35.99, ImageURL: "https://via.placeholder.com/600/4682B4/FFFFFF?text=Tommy", Genre: "rock"},
	{ID: "20", Title: "Machine Head", Artist: "Deep Purple", Price: 30.99, ImageURL: "https://via.placeholder.com/600/800080/FFFFFF?text=Machine+Head", Genre: "rock"},
	{ID: "21", Title: "Are You Experienced", Artist: "Jimi Hendrix", Price: 31.99, ImageURL: "https://via.placeholder.com/600/FF6347/FFFFFF?text=Are+You+Experienced", Genre: "rock"},
	{ID: "22", Title: "London Calling", Artist: "The Clash", Price: 33.99, ImageURL: "https://via.placeholder.com/600/B22222/FFFFFF?text=London+Calling", Genre: "rock"},
}

// Builtin 内置兜底目录
type Builtin struct {
	byID map[string]Album
}

// NewBuiltin 创建内置目录
func NewBuiltin() *Builtin {
	byID := make(map[string]Album, len(builtinAlbums))
	for _, album := range builtinAlbums {
		byID[album.ID] = album
	}
	return &Builtin{byID: byID}
}

// Find 按标识查找内置条目
func (b *Builtin) Find(id string) (models.ProductSnapshot, bool) {
	album, ok := b.byID[id]
	if !ok {
		return models.ProductSnapshot{}, false
	}
	return album.Snapshot(), true
}

// Genres 返回目录中出现的全部流派
func (b *Builtin) Genres() []string {
	seen := make(map[string]struct{})
	genres := make([]string, 0, 2)
	for _, album := range builtinAlbums {
		if album.Genre == "" {
			continue
		}
		if _, ok := seen[album.Genre]; ok {
			continue
		}
		seen[album.Genre] = struct{}{}
		genres = append(genres, album.Genre)
	}
	return genres
}

// Snapshot 转换为统一商品快照
func (a Album) Snapshot() models.ProductSnapshot {
	return models.ProductSnapshot{
		ID:       a.ID,
		Title:    a.Title,
		Artist:   a.Artist,
		Price:    models.NewMoneyFromFloat(a.Price),
		ImageURL: a.ImageURL,
	}
}
