package fakeapi

import "restobrowse/internal/types"

// SampleRestaurants returns the built-in fixture set: ten restaurants across
// five cities, enough to span two listing pages.
func SampleRestaurants() []types.Restaurant {
	foods := []types.MenuItem{{Name: "Paket rosemary"}, {Name: "Toastie salmon"}, {Name: "Bebek crepes"}, {Name: "Salad lengkeng"}}
	drinks := []types.MenuItem{{Name: "Es krim"}, {Name: "Sirup"}, {Name: "Jus apel"}, {Name: "Coklat panas"}}

	mk := func(id, name, city, addr, pic string, rating float64, cats []string, reviews ...types.Review) types.Restaurant {
		r := types.Restaurant{
			ID:          id,
			Name:        name,
			City:        city,
			Address:     addr,
			PictureID:   pic,
			Rating:      rating,
			Description: name + " serves honest food in " + city + ". Good for groups and quick lunches.",
			Menus: &types.Menus{
				Foods:  append([]types.MenuItem(nil), foods...),
				Drinks: append([]types.MenuItem(nil), drinks...),
			},
			CustomerReviews: reviews,
		}
		for _, c := range cats {
			r.Categories = append(r.Categories, types.Category{Name: c})
		}
		return r
	}
	rv := func(name, text string) types.Review {
		return types.Review{Name: name, Review: text, Date: "13 November 2019"}
	}

	return []types.Restaurant{
		mk("rqdv5juczeskfw1e867", "Melting Pot", "Medan", "Jln. Pandeglang no 19", "14", 4.2, []string{"Italia", "Modern"},
			rv("Ahmad", "Tidak rekomendasi untuk pelajar!"),
			rv("Gilang", "Tempatnya bagus namun menurut saya masih sedikit mahal."),
			rv("Ijal", "Harga murah namun pelayanan lambat."),
			rv("Dewi", "Pasta terbaik di Medan."),
			rv("Rina", "Cocok untuk makan malam keluarga."),
		),
		mk("s1knt6za9kkfw1e867", "Kafe Kita", "Gorontalo", "Jln. Pustakawan no 9", "25", 4, []string{"Modern", "Sop"},
			rv("Ahmad", "Tidak ada yang spesial."),
		),
		mk("w9pga3s2tubkfw1e867", "Bring Your Phone Cafe", "Surabaya", "Jln. Belimbing Timur no 27", "03", 4.2, []string{"Jawa"}),
		mk("uewq1zg2zlskfw1e867", "Kafein", "Aceh", "Jln. Belimbing Timur no 27", "15", 4.6, []string{"Sunda"},
			rv("Buchori", "Kopinya mantap."),
			rv("Sari", "Suasana tenang."),
		),
		mk("ygewwl55ktckfw1e867", "Istana Emas", "Balikpapan", "Jln. Belimbing Timur no 27", "05", 4.5, []string{"Bali"}),
		mk("fnfn8mytkpmkfw1e867", "Makan mudah", "Medan", "Jln. Pandeglang no 19", "22", 3.7, []string{"Jawa"}),
		mk("dwg2wesikhdkfw1e867", "Kafe Cemara", "Medan", "Jln. Pandeglang no 19", "", 4.3, []string{"Sunda"}),
		mk("6u9lf7okjh9kfw1e867", "Run The Food", "Surabaya", "Jln. Belimbing Timur no 27", "04", 3.8, []string{"Modern"}),
		mk("zvf11c0sukfw1e867", "Gigitan Cepat", "Surabaya", "Jln. Belimbing Timur no 27", "06", 4, []string{"Pizza", "Italia"},
			rv("Ari", "Pizza tipis dan renyah."),
		),
		mk("ateyf7m737ekfw1e867", "Rumah Senja", "Aceh", "Jln. Belimbing Timur no 27", "07", 4.1, []string{"Jawa", "Sunda"}),
	}
}
