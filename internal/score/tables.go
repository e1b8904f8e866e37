package score

// Reference curves. Index is the raw score, value the scaled score.

var defaultDataset = Dataset{
	cet4: scoreTable{
		listening: curveSet{
			easy:   curve{86, 86, 86, 86, 86, 87, 92, 97, 101, 106, 111, 116, 121, 125, 130, 135, 140, 145, 149, 154, 159, 164, 169, 173, 178, 183, 188, 193, 197, 202, 207, 212, 217, 221, 226, 249},
			medium: curve{86, 86, 86, 86, 90, 95, 99, 104, 109, 114, 119, 123, 128, 133, 138, 143, 147, 152, 157, 162, 167, 171, 176, 181, 186, 191, 195, 200, 205, 210, 215, 219, 224, 229, 234, 249},
			hard:   curve{86, 86, 88, 92, 97, 102, 107, 112, 116, 121, 126, 131, 136, 140, 145, 150, 155, 160, 164, 169, 174, 179, 184, 188, 193, 198, 203, 208, 212, 217, 222, 227, 232, 236, 241, 249},
		},
		reading: curveSet{
			easy:   curve{81, 81, 81, 81, 82, 87, 92, 97, 101, 106, 111, 116, 121, 125, 130, 135, 140, 145, 149, 154, 159, 164, 169, 173, 178, 183, 188, 193, 197, 202, 207, 212, 217, 221, 226, 249},
			medium: curve{81, 81, 81, 85, 90, 95, 99, 104, 109, 114, 119, 123, 128, 133, 138, 143, 147, 152, 157, 162, 167, 171, 176, 181, 186, 191, 195, 200, 205, 210, 215, 219, 224, 229, 234, 249},
			hard:   curve{81, 83, 88, 92, 97, 102, 107, 112, 116, 121, 126, 131, 136, 140, 145, 150, 155, 160, 164, 169, 174, 179, 184, 188, 193, 198, 203, 208, 212, 217, 222, 227, 232, 236, 241, 249},
		},
		writing: writingCurve{68, 73, 78, 82, 87, 92, 97, 102, 106, 111, 116, 121, 126, 130, 135, 140, 145, 150, 154, 159, 164, 169, 174, 178, 183, 188, 193, 198, 202, 207, 212},
	},
	cet6: scoreTable{
		listening: curveSet{
			easy:   curve{45, 45, 45, 45, 51, 57, 63, 69, 75, 81, 87, 93, 99, 105, 111, 117, 123, 129, 135, 141, 147, 153, 159, 165, 171, 177, 183, 189, 195, 201, 207, 213, 219, 225, 231, 249},
			medium: curve{45, 45, 45, 51, 57, 63, 69, 75, 81, 87, 93, 99, 105, 111, 117, 123, 129, 135, 141, 147, 153, 159, 165, 171, 177, 183, 189, 195, 201, 207, 213, 219, 225, 231, 237, 249},
			hard:   curve{45, 45, 51, 57, 63, 69, 75, 81, 87, 93, 99, 105, 111, 117, 123, 129, 135, 141, 147, 153, 159, 165, 171, 177, 183, 189, 195, 201, 207, 213, 219, 225, 231, 237, 243, 249},
		},
		reading: curveSet{
			easy:   curve{45, 45, 45, 51, 57, 63, 69, 75, 81, 87, 93, 99, 105, 111, 117, 123, 129, 135, 141, 147, 153, 159, 165, 171, 177, 183, 189, 195, 201, 207, 213, 219, 225, 231, 237, 249},
			medium: curve{45, 48, 54, 60, 66, 72, 78, 84, 90, 96, 102, 108, 114, 120, 126, 132, 138, 144, 150, 156, 162, 168, 174, 180, 186, 192, 198, 204, 210, 216, 222, 228, 234, 240, 246, 249},
			hard:   curve{51, 57, 63, 69, 75, 81, 87, 93, 99, 105, 111, 117, 123, 129, 135, 141, 147, 153, 159, 165, 171, 177, 183, 189, 195, 201, 207, 213, 219, 225, 231, 237, 243, 248, 248, 249},
		},
		writing: writingCurve{32, 38, 44, 50, 56, 62, 68, 74, 80, 86, 92, 98, 104, 110, 116, 122, 128, 134, 140, 146, 152, 158, 164, 170, 176, 182, 188, 194, 200, 206, 212},
	},
}
