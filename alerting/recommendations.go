package alerting

import (
	"strings"

	"github.com/cropwatch-lk/cropwatch-api/models"
)

// recommendations maps known disease labels to bilingual advisory text
// shown to farmers when an alert opens. Keys are lowercase.
var recommendations = map[string]models.Recommendation{
	"brown spot": {
		En: "Brown spot detected in your area. Avoid excess nitrogen, ensure balanced potassium fertilization and remove infected stubble. A mancozeb-based fungicide can be applied at early tillering.",
		Si: "ඔබේ ප්‍රදේශයේ දුඹුරු පුල්ලි රෝගය වාර්තා වී ඇත. නයිට්‍රජන් පොහොර අධික ලෙස යෙදීමෙන් වළකින්න, පොටෑසියම් පොහොර සමබරව යොදන්න, ආසාදිත ඉපනැලි ඉවත් කරන්න.",
	},
	"rice blast": {
		En: "Rice blast is spreading nearby. Use resistant varieties where possible, drain fields briefly to reduce humidity and apply a tricyclazole fungicide at the first sign of nodal infection.",
		Si: "ඔබ අවට බ්ලාස්ට් රෝගය පැතිරෙමින් තිබේ. ප්‍රතිරෝධී වී ප්‍රභේද භාවිතා කරන්න, කුඹුරේ ජලය කෙටි කලකට බස්වා තෙතමනය අඩු කරන්න.",
	},
	"bacterial leaf blight": {
		En: "Bacterial leaf blight reported in your division. Avoid field-to-field water flow, do not apply nitrogen during infection and use copper-based bactericides on young infections.",
		Si: "ඔබේ කොට්ඨාසයේ බැක්ටීරියා කොළ අංගමාරය වාර්තා වී ඇත. කුඹුරෙන් කුඹුරට ජලය ගලායාම වළක්වන්න, ආසාදන කාලයේ නයිට්‍රජන් යෙදීමෙන් වළකින්න.",
	},
	"sheath blight": {
		En: "Sheath blight conditions detected. Reduce plant density, manage water to avoid prolonged flooding and consider a validamycin application if lesions reach the flag leaf.",
		Si: "කොපු අංගමාර රෝග තත්ත්ව හඳුනාගෙන ඇත. පැළ ඝනත්වය අඩු කරන්න, දිගු කාලීන ජලගැල්ම වළක්වන්න.",
	},
	"tungro": {
		En: "Tungro virus risk in your area. Control green leafhopper vectors immediately, remove infected hills and synchronize planting with neighboring fields.",
		Si: "ඔබේ ප්‍රදේශයේ ටංග්‍රෝ වෛරස් අවදානමක් ඇත. කොළ පැණි මැස්සන් වහාම පාලනය කරන්න, ආසාදිත පඳුරු ඉවත් කරන්න.",
	},
	"leaf folder": {
		En: "Leaf folder infestation reported nearby. Conserve natural enemies, avoid early-season insecticides and spray only if damage exceeds two folded leaves per hill.",
		Si: "කොළ හකුළන දළඹු උවදුර අවට වාර්තා වී ඇත. ස්වාභාවික සතුරන් සංරක්ෂණය කරන්න, හානිය සීමාව ඉක්මවූ විට පමණක් කෘමිනාශක යොදන්න.",
	},
}

// genericRecommendation is the fallback for diseases without curated advice
var genericRecommendation = models.Recommendation{
	En: "A crop disease outbreak has been reported in your area. Please consult your local agriculture officer for guidance before applying any treatment.",
	Si: "ඔබේ ප්‍රදේශයේ බෝග රෝග ව්‍යාප්තියක් වාර්තා වී ඇත. ප්‍රතිකාර යෙදීමට පෙර ඔබේ ප්‍රාදේශීය කෘෂිකර්ම නිලධාරියා හමුවී උපදෙස් ලබාගන්න.",
}

// RecommendationFor returns the bilingual advisory for a disease label,
// falling back to generic guidance for unknown diseases.
func RecommendationFor(disease string) models.Recommendation {
	if rec, ok := recommendations[strings.ToLower(strings.TrimSpace(disease))]; ok {
		return rec
	}
	return genericRecommendation
}
