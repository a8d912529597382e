package excerpt

// DefaultKeywords is the built-in keyword set: Hindi vocabulary common in
// horror and suspense narration. Matching is case-sensitive substring search.
var DefaultKeywords = []string{
	// Fear / horror
	"डर", "डरावना", "भय", "भयानक", "सिहरन", "चौंक", "चीख", "हड्डी", "खून",
	"खूनखराबा", "खूनी", "काँप", "दहशत", "भूतिया", "भयानकता",

	// Supernatural
	"भूत", "प्रेत", "आत्मा", "चुड़ैल", "डायन", "शैतान", "पिशाच",
	"राक्षस", "प्रेतात्मा", "जिन्न", "अलौकिक", "कब्र", "कब्रिस्तान",
	"काल", "काला जादू", "टोना", "वूडू", "अजीब", "रहस्यमय", "रहस्य",

	// Suspense / thriller
	"खतरा", "खतरनाक", "साजिश", "शक", "गायब", "गुम",
	"भटक", "अनजान", "चुपके", "साया", "सन्नाटा", "अंधेरा", "गुप्त",
	"गुप्तचर", "सपना", "दुःस्वप्न", "दुःखद", "घातक", "घात", "अनहोनी",

	// Emotional / impactful
	"रोमांच", "रोमांचक", "चौंकाने", "हैरान", "आश्चर्य", "अविश्वसनीय",
	"जोरदार", "खौफनाक", "खौफ", "बेहोश", "सन्न", "झटका", "गुस्सा",
	"खामोशी", "तन्हाई", "घबराहट", "परेशान", "भ्रम",

	// Sounds
	"ठक", "धमाका", "चिल्लाहट", "आहट", "आवाज़", "धमक", "फुसफुसाहट",
	"कराह", "सिसकी", "फुफकार", "भड़भड़ाहट", "गूंज", "बज", "ठोकर",

	// Dark imagery
	"लाश", "मौत", "मृत", "कंकाल", "मृत्यु", "अंधकार",
	"खोपड़ी", "सड़न", "काला", "धुंध", "अदृश्य", "परछाई",
}
