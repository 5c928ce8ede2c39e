// Package content holds the public landing-page material: regional news
// about the election and the official schedule.
package content

type Article struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Source    string `json:"source"`
	URL       string `json:"url"`
	ImageURL  string `json:"imageUrl"`
	ImageHint string `json:"imageHint"`
	Snippet   string `json:"snippet"`
}

type Stage struct {
	Date        string   `json:"date"`
	Title       string   `json:"title"`
	Details     []string `json:"details"`
	Highlighted bool     `json:"highlighted"`
}

var articles = []Article{
	{
		ID:        1,
		Title:     "Pemilihan OSIS Serentak di Sulsel Tingkatkan Partisipasi Demokrasi Siswa",
		Source:    "Fajar.co.id",
		URL:       "#",
		ImageURL:  "https://picsum.photos/seed/news1/600/400",
		ImageHint: "students meeting",
		Snippet:   "Program pemilihan OSIS serentak yang digagas oleh Dinas Pendidikan Provinsi Sulawesi Selatan berhasil meningkatkan partisipasi siswa dalam berdemokrasi di tingkat sekolah.",
	},
	{
		ID:        2,
		Title:     "Gubernur Sulsel Apresiasi Inovasi Pemilihan OSIS Berbasis Digital",
		Source:    "Tribun-Timur.com",
		URL:       "#",
		ImageURL:  "https://picsum.photos/seed/news2/600/400",
		ImageHint: "official government",
		Snippet:   "Gubernur Sulawesi Selatan memberikan apresiasi tinggi terhadap pelaksanaan pemilihan OSIS serentak yang memanfaatkan teknologi digital untuk proses yang lebih transparan dan efisien.",
	},
	{
		ID:        3,
		Title:     "SMKN 2 Tana Toraja Sukses Gelar Pemilihan OSIS Serentak",
		Source:    "Ujungpandang Ekspres",
		URL:       "#",
		ImageURL:  "https://picsum.photos/seed/news3/600/400",
		ImageHint: "students voting",
		Snippet:   "SMKN 2 Tana Toraja menjadi salah satu sekolah yang berhasil menyelenggarakan pemilihan OSIS serentak dengan lancar, diikuti oleh antusiasme tinggi dari seluruh siswa.",
	},
	{
		ID:        4,
		Title:     "Debat Kandidat OSIS di Makassar Jadi Ajang Adu Visi dan Misi",
		Source:    "Makassar Terkini",
		URL:       "#",
		ImageURL:  "https://picsum.photos/seed/news4/600/400",
		ImageHint: "debate stage",
		Snippet:   "Sesi debat antar kandidat ketua OSIS di salah satu SMA unggulan di Makassar berlangsung sengit, menampilkan visi dan misi yang cemerlang untuk kemajuan sekolah.",
	},
	{
		ID:        5,
		Title:     "Disdik Sulsel: E-Voting Jadikan Pemilihan OSIS Lebih Jujur dan Adil",
		Source:    "BeritaSatu",
		URL:       "#",
		ImageURL:  "https://picsum.photos/seed/news5/600/400",
		ImageHint: "student using phone",
		Snippet:   "Kepala Dinas Pendidikan Sulsel menyatakan bahwa penerapan sistem e-voting dalam pemilihan OSIS serentak terbukti mampu menekan angka kecurangan dan meningkatkan kejujuran.",
	},
	{
		ID:        6,
		Title:     "Pelajar di Gowa Belajar Demokrasi Langsung Lewat Pemilihan OSIS Serentak",
		Source:    "Celebes TV",
		URL:       "#",
		ImageURL:  "https://picsum.photos/seed/news6/600/400",
		ImageHint: "classroom election",
		Snippet:   "Para pelajar di Kabupaten Gowa mendapatkan pengalaman berharga mengenai proses demokrasi melalui partisipasi mereka dalam pemilihan ketua OSIS serentak.",
	},
}

// Schedule of the 2025 simultaneous OSIS election, in chronological order.
var stages = []Stage{
	{Date: "1–8 September 2025", Title: "Perencanaan dan Persiapan", Details: []string{
		"Perencanaan, Program, dan Sosialisasi Pemilihan Ketua OSIS & Wakil Ketua OSIS",
		"Pembentukan Panitia Pemilihan OSIS",
		"Pembentukan Panitia Pengawas Pemilihan OSIS",
		"Pembentukan Panitia Kehormatan Pemilihan OSIS",
	}},
	{Date: "9 September 2025", Title: "Penetapan Syarat Calon", Details: []string{
		"Penetapan syarat calon Ketua OSIS & Wakil Ketua OSIS periode 2025–2026 oleh pihak sekolah",
	}},
	{Date: "10–11 September 2025", Title: "Pemutakhiran Data Pemilih", Details: []string{
		"Pemutakhiran data pemilih dan penetapan daftar pemilih tetap",
		"Rekapitulasi pemutakhiran pemilih tingkat kelas",
		"Rekapitulasi pemutakhiran pemilih tingkat sekolah",
	}},
	{Date: "12 September 2025", Title: "Pendaftaran Calon", Details: []string{
		"Pendaftaran bakal calon Ketua OSIS & Wakil Ketua OSIS",
	}},
	{Date: "13–14 September 2025", Title: "Verifikasi dan Seleksi", Details: []string{
		"Pemeriksaan dan verifikasi administrasi",
		"Tes wawancara",
	}},
	{Date: "15–16 September 2025", Title: "Penetapan Calon dan Persiapan Kampanye", Details: []string{
		"Penetapan calon Ketua & Wakil Ketua OSIS serta pengundian nomor urut",
		"Pendaftaran tim kampanye",
		"Pelaporan dana kampanye",
	}},
	{Date: "16–19 September 2025", Title: "Sosialisasi Awal", Details: []string{
		"Sosialisasi dan pembagian surat pemberitahuan memilih",
	}},
	{Date: "20–26 September 2025", Title: "Masa Kampanye", Highlighted: true, Details: []string{
		"Penyebaran bahan kampanye & alat peraga kampanye",
		"Pembuatan dan penyampaian video visi dan misi calon Ketua & Wakil Ketua OSIS serta upload video visi-misi online",
		"Sosialisasi visi dan misi calon",
		"Orasi (rapat umum) dan debat terbuka calon Ketua & Wakil Ketua OSIS",
	}},
	{Date: "27–28 September 2025", Title: "Masa Tenang", Details: []string{}},
	{Date: "29 September 2025", Title: "Pemungutan Suara", Highlighted: true, Details: []string{
		"Pemungutan, penghitungan, dan rekapitulasi suara",
	}},
	{Date: "29–30 September 2025", Title: "Penyelesaian Sengketa dan Penetapan Hasil", Details: []string{
		"Pengajuan dan penyelesaian sengketa (jika ada laporan Panwaslo)",
		"Penetapan hasil pemilihan Ketua & Wakil Ketua OSIS",
	}},
	{Date: "(Menyesuaikan)", Title: "Penetapan Pemenang", Details: []string{
		"Penetapan Ketua OSIS & Wakil Ketua OSIS terpilih",
	}},
}

// News returns a copy of the article list.
func News() []Article {
	out := make([]Article, len(articles))
	copy(out, articles)
	return out
}

// Timeline returns a copy of the election schedule.
func Timeline() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}
