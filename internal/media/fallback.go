package media

// fallbackImages ship with the binary and are served when the API cannot be
// used. There is no video fallback.
var fallbackImages = []Item{
	fallbackImage("fallback-01", "https://cdn.pixabay.com/photo/2015/12/01/20/28/road-1072821_1280.jpg", "Valiphotos", "road", "forest", "autumn"),
	fallbackImage("fallback-02", "https://cdn.pixabay.com/photo/2016/11/29/04/19/ocean-1867285_1280.jpg", "Pexels", "ocean", "waves", "sea"),
	fallbackImage("fallback-03", "https://cdn.pixabay.com/photo/2013/10/02/23/03/mountains-190055_1280.jpg", "Free-Photos", "mountains", "dawn", "fog"),
	fallbackImage("fallback-04", "https://cdn.pixabay.com/photo/2016/08/11/23/48/mountains-1587287_1280.jpg", "jplenio", "lake", "mountains", "reflection"),
	fallbackImage("fallback-05", "https://cdn.pixabay.com/photo/2015/06/19/21/24/avenue-815297_1280.jpg", "Larisa-K", "avenue", "trees", "path"),
	fallbackImage("fallback-06", "https://cdn.pixabay.com/photo/2017/02/01/22/02/mountain-landscape-2031539_1280.jpg", "12019", "mountain", "valley", "sky"),
	fallbackImage("fallback-07", "https://cdn.pixabay.com/photo/2016/05/05/02/37/sunset-1373171_1280.jpg", "Pexels", "sunset", "beach", "sea"),
	fallbackImage("fallback-08", "https://cdn.pixabay.com/photo/2018/08/14/13/23/ocean-3605547_1280.jpg", "Pexels", "ocean", "shore", "calm"),
	fallbackImage("fallback-09", "https://cdn.pixabay.com/photo/2017/12/15/13/51/polynesia-3021072_1280.jpg", "jplenio", "lagoon", "island", "turquoise"),
	fallbackImage("fallback-10", "https://cdn.pixabay.com/photo/2016/10/18/21/22/beach-1751455_1280.jpg", "Pexels", "beach", "palm", "sunset"),
	fallbackImage("fallback-11", "https://cdn.pixabay.com/photo/2015/04/23/22/00/tree-736885_1280.jpg", "Bessi", "tree", "meadow", "sky"),
	fallbackImage("fallback-12", "https://cdn.pixabay.com/photo/2014/02/27/16/10/flowers-276014_1280.jpg", "Nikiko", "flowers", "field", "spring"),
}

// DefaultFallbackCount is how many fallback images a search returns when the
// request does not say.
const DefaultFallbackCount = 8

// FallbackSize is the number of bundled fallback images.
func FallbackSize() int {
	return len(fallbackImages)
}

func fallbackImage(id, url, author string, tags ...string) Item {
	return Item{
		ID:         id,
		Kind:       KindImage,
		URL:        url,
		PreviewURL: url,
		Tags:       tags,
		Author:     author,
	}
}
